package config

import (
	"fmt"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/rileyhilliard/infradash/internal/errors"
)

// ViewNames are the dashboard views accepted by dashboard.default_view.
// Family aliases (ec2, alb, rds, vpc, s3, cloudfront) are accepted too.
var ViewNames = map[string]bool{
	"overview":      true,
	"compute":       true,
	"ec2":           true,
	"load-balancer": true,
	"alb":           true,
	"database":      true,
	"rds":           true,
	"network":       true,
	"vpc":           true,
	"storage":       true,
	"s3":            true,
	"cdn":           true,
	"cloudfront":    true,
}

// configValidate checks the struct tags on Config. Field names are reported
// by their yaml keys so messages match what users write.
var configValidate *validator.Validate

func init() {
	configValidate = validator.New()
	configValidate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = configValidate.RegisterValidation("view", validateView)
	_ = configValidate.RegisterValidation("web_url", validateWebURL)
}

func validateView(fl validator.FieldLevel) bool {
	return ViewNames[strings.ToLower(fl.Field().String())]
}

func validateWebURL(fl validator.FieldLevel) bool {
	u, err := url.Parse(fl.Field().String())
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New(errors.ErrConfig,
			"Config is nil",
			"This is unexpected - try reloading the configuration.")
	}

	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but infradash only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Grab the latest infradash release.")
	}

	err := configValidate.Struct(cfg)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok || len(fieldErrs) == 0 {
		return errors.WrapWithCode(err, errors.ErrConfig, "Config couldn't be validated", "")
	}

	fe := fieldErrs[0]
	key := yamlKey(fe)
	section := strings.SplitN(key, ".", 2)[0]
	return errors.WrapWithCode(err, errors.ErrConfig, fieldMessage(key, fe),
		fmt.Sprintf("Check the '%s' section in your .infradash.yaml.", section))
}

// yamlKey turns "Config.server.url" into "server.url".
func yamlKey(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func fieldMessage(key string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		if key == "server.url" {
			return "server.url is empty - point it at the backend API, e.g. http://localhost:8080/api"
		}
		return fmt.Sprintf("%s is empty", key)
	case "url":
		return fmt.Sprintf("%s '%v' isn't a valid URL", key, fe.Value())
	case "web_url":
		return fmt.Sprintf("%s '%v' must use http or https and name a host", key, fe.Value())
	case "gt":
		return fmt.Sprintf("%s must be positive, got %v", key, fe.Value())
	case "gte":
		return fmt.Sprintf("%s can't be negative", key)
	case "oneof":
		opts := strings.Fields(fe.Param())
		return fmt.Sprintf("%s '%v' isn't valid - use %s", key, fe.Value(), strings.Join(opts, ", "))
	case "view":
		return fmt.Sprintf("%s '%v' isn't a known view - try overview, compute, load-balancer, database, network, storage, or cdn", key, fe.Value())
	case "hostname_port":
		return fmt.Sprintf("%s '%v' isn't a host:port address, e.g. :9464", key, fe.Value())
	}
	return fmt.Sprintf("%s failed the '%s' check", key, fe.Tag())
}

package config

import (
	"strings"

	"github.com/thoreinstein/setup-vulkan-sdk/internal/errors"
	"github.com/thoreinstein/setup-vulkan-sdk/internal/platform"
	"github.com/thoreinstein/setup-vulkan-sdk/internal/validator"
)

// Lint reports every problem with cfg for the given platform. Validate
// failures become errors; inputs that are valid but ignored on tag become
// warnings.
func Lint(cfg *Config, tag platform.Tag) *validator.Result {
	result := &validator.Result{}
	if cfg == nil {
		result.AddError("", "config is nil", nil)
		return result
	}

	for _, err := range Validate(cfg) {
		issue := validator.Issue{
			Severity: validator.SeverityError,
			Message:  err.Error(),
			Hint:     strings.Join(errors.GetAllHints(err), "; "),
		}
		var fe *FieldError
		switch {
		case errors.As(err, &fe):
			issue.Field, issue.Message, issue.Value = fe.Field, fe.Err.Error(), fe.Value
		case errors.Is(err, ErrInvalidTimeout):
			issue.Field, issue.Value = KeyInstallerTimeout, cfg.InstallerTimeout.String()
		default:
			issue.Field, issue.Value = KeyVulkanVersion, cfg.VulkanVersion
		}
		result.Add(issue)
	}

	_, rejected := FilterComponents(cfg.OptionalComponents)
	for _, c := range rejected {
		result.Add(validator.Issue{
			Severity: validator.SeverityWarning,
			Field:    KeyOptionalComponents,
			Message:  "unknown component is ignored",
			Value:    c,
			Hint:     "allowed: " + strings.Join(AllowedComponents, ", "),
		})
	}

	if cfg.Stripdown && !cfg.Cache {
		result.AddWarning(KeyStripdown, "has no effect unless cache is enabled", true)
	}
	if tag != platform.Windows {
		if cfg.InstallRuntime {
			result.AddWarning(KeyInstallRuntime, "runtime components are only published for windows", true)
		}
		if len(cfg.OptionalComponents) > 0 {
			result.AddWarning(KeyOptionalComponents, "optional components are only installed on windows", strings.Join(cfg.OptionalComponents, ","))
		}
	}
	return result
}

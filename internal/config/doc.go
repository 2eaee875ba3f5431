// Package config loads the installer inputs.
//
// Inputs come from, in decreasing precedence: command line flags bound by the
// CLI, environment variables named INPUT_<KEY> (the form GitHub Actions uses
// for action inputs), an optional setup-vulkan-sdk.yaml in the working
// directory or in $XDG_CONFIG_HOME/setup-vulkan-sdk/, and built-in defaults.
//
//	vulkan_version: 1.3.250.1
//	destination: ~/vulkan-sdk
//	install_runtime: true
//	cache: true
//	stripdown: true
//	optional_components: com.lunarg.vulkan.vma,com.lunarg.vulkan.volk
//	installer_timeout: 45m
//
// Call [Init] once, then [Load] and [Validate]:
//
//	config.Init()
//	cfg, err := config.Load("")
//	if err != nil {
//	    return err
//	}
//	if errs := config.Validate(cfg); len(errs) > 0 {
//	    return errs[0]
//	}
//
// Optional components are filtered against an allow-list with
// [FilterComponents].
package config

package config

import (
	"slices"
	"strings"
)

// AllowedComponents lists the optional installer components that may be
// requested. The last two exist only in older installers.
var AllowedComponents = []string{
	"com.lunarg.vulkan.32bit",
	"com.lunarg.vulkan.sdl2",
	"com.lunarg.vulkan.glm",
	"com.lunarg.vulkan.volk",
	"com.lunarg.vulkan.vma",
	"com.lunarg.vulkan.debug32",
	"com.lunarg.vulkan.thirdparty",
	"com.lunarg.vulkan.debug",
}

// FilterComponents splits comma separated entries, trims them and keeps the
// allowed ones in first-seen order without duplicates. Rejected entries are
// returned separately. Filtering its own output returns it unchanged.
func FilterComponents(input []string) (valid, invalid []string) {
	for _, raw := range input {
		for _, item := range strings.Split(raw, ",") {
			item = strings.TrimSpace(item)
			if item == "" {
				continue
			}
			if !slices.Contains(AllowedComponents, item) {
				if !slices.Contains(invalid, item) {
					invalid = append(invalid, item)
				}
				continue
			}
			if !slices.Contains(valid, item) {
				valid = append(valid, item)
			}
		}
	}
	return valid, invalid
}

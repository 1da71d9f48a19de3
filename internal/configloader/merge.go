package configloader

import "github.com/yaklabco/mdlive/pkg/config"

// merge combines two configurations, with override taking precedence over base.
// The merge follows these rules:
//   - Scalar values: override overwrites base if override is non-zero
//   - Booleans are pointers: a non-nil override wins, so false can be set
//   - Nil/unset values in override do not override values in base
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := base.Clone()

	if override.LogLevel != "" {
		result.LogLevel = override.LogLevel
	}
	if override.Format != "" {
		result.Format = override.Format
	}

	if override.Parser.Window != 0 {
		result.Parser.Window = override.Parser.Window
	}
	mergeBool(&result.Parser.DetectLanguages, override.Parser.DetectLanguages)

	if override.Renderer.ClassPrefix != "" {
		result.Renderer.ClassPrefix = override.Renderer.ClassPrefix
	}

	if override.Trigger.Debounce != 0 {
		result.Trigger.Debounce = override.Trigger.Debounce
	}
	if override.Trigger.MinCursorDistance != 0 {
		result.Trigger.MinCursorDistance = override.Trigger.MinCursorDistance
	}
	mergeBool(&result.Trigger.OnSpace, override.Trigger.OnSpace)
	mergeBool(&result.Trigger.OnCursorMovement, override.Trigger.OnCursorMovement)
	mergeBool(&result.Trigger.OnBlockCompletion, override.Trigger.OnBlockCompletion)

	mergeBool(&result.Export.GFM, override.Export.GFM)
	mergeBool(&result.Export.Unsafe, override.Export.Unsafe)
	mergeBool(&result.Export.HeadingIDs, override.Export.HeadingIDs)
	mergeBool(&result.Export.Standalone, override.Export.Standalone)

	return result
}

func mergeBool(dst **bool, override *bool) {
	if override != nil {
		*dst = config.Bool(*override)
	}
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		result = merge(result, configs[i])
	}
	return result
}

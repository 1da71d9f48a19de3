package config

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full writes every setting uncommented with its default value.
	// Otherwise the template is a commented skeleton.
	Full bool
}

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) []byte {
	if opts.Full {
		return []byte(fullTemplate)
	}
	return []byte(minimalTemplate)
}

const minimalTemplate = `# mdlive configuration
# See: https://github.com/yaklabco/mdlive

# Log level: debug, info, warn, or error
# log_level: warn

# parser:
#   window: 100
#   detect_languages: true

# renderer:
#   class_prefix: md

# trigger:
#   debounce: 150ms
#   on_space: true
#   on_cursor_movement: true
#   on_block_completion: true
#   min_cursor_distance: 1

# export:
#   gfm: true
#   unsafe: false
#   heading_ids: true
#   standalone: false
`

const fullTemplate = `# mdlive configuration - Full Template
# See: https://github.com/yaklabco/mdlive

# Log level: debug, info, warn, or error
log_level: warn

parser:
  # Bytes around the cursor re-scanned by incremental parsing
  window: 100
  # Guess the language of code blocks without an info string
  detect_languages: true

renderer:
  # Prefix for generated CSS classes (md gives md-bold, md-header-1, ...)
  class_prefix: md

trigger:
  # Quiet period after the last event before the view re-renders
  debounce: 150ms
  on_space: true
  on_cursor_movement: true
  on_block_completion: true
  # Cursor moves shorter than this many bytes are ignored
  min_cursor_distance: 1

export:
  # GitHub-Flavored Markdown: tables, strikethrough, autolinks, task lists
  gfm: true
  # Pass raw HTML in the source through to the export
  unsafe: false
  heading_ids: true
  # Wrap the export in a complete HTML document
  standalone: false
`

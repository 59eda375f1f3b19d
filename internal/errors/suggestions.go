package errors

import "fmt"

// Suggestion returns a one-line hint for fixing err, or "" when there is
// nothing more useful to say than the error itself.
func Suggestion(err error) string {
	var se *SiteError
	if !As(err, &se) {
		return ""
	}

	switch se.Code {
	case ErrCodeDirMissing:
		return fmt.Sprintf("create '%s' or point the matching dirs.* setting in .stencil.yml at an existing directory", se.Path)
	case ErrCodeFileRead:
		return "source directories may only contain UTF-8 text files; move binary files into the public directory"
	case ErrCodeDuplicateName:
		return "two files differ only by extension; rename one of them"
	case ErrCodeTemplateNotFound:
		return fmt.Sprintf("add templates/%s.hbs or fix the template name; `stencil check` lists every page", se.Name)
	case ErrCodePartialRegistration, ErrCodeRender:
		return "run `stencil check` to render every page without writing output"
	case ErrCodeInbuiltPartialRegistration:
		return "the url setting must not contain template syntax"
	case ErrCodeStyleCompile:
		return "install the Dart Sass embedded binary (sass) and make sure it is on PATH"
	case ErrCodeConfigInvalid:
		return "see `stencil --help` for the configuration file format"
	}

	return ""
}

// Package errors defines the typed failures produced by the site pipeline.
//
// Every failure carries the name or path needed to diagnose it without
// re-running the build. Callers test for a specific failure with
// errors.Is against one of the Err* sentinels, or with HasCode.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeConfig   ErrorType = "config"
	ErrorTypeIO       ErrorType = "io"
	ErrorTypeTemplate ErrorType = "template"
	ErrorTypeStyle    ErrorType = "style"
	ErrorTypeAsset    ErrorType = "asset"
)

// Common error codes.
const (
	ErrCodeDirMissing                 = "ERR_DIR_MISSING"
	ErrCodeDirRead                    = "ERR_DIR_READ"
	ErrCodeDirCreate                  = "ERR_DIR_CREATE"
	ErrCodeDirRemove                  = "ERR_DIR_REMOVE"
	ErrCodeFileRead                   = "ERR_FILE_READ"
	ErrCodeFileWrite                  = "ERR_FILE_WRITE"
	ErrCodeTemplateNotFound           = "ERR_TEMPLATE_NOT_FOUND"
	ErrCodePartialRegistration        = "ERR_PARTIAL_REGISTRATION"
	ErrCodeInbuiltPartialRegistration = "ERR_INBUILT_PARTIAL_REGISTRATION"
	ErrCodeRender                     = "ERR_RENDER"
	ErrCodeStyleCompile               = "ERR_STYLE_COMPILE"
	ErrCodeCSSMinify                  = "ERR_CSS_MINIFY"
	ErrCodeHTMLMinify                 = "ERR_HTML_MINIFY"
	ErrCodeAssetCopy                  = "ERR_ASSET_COPY"
	ErrCodeConfigInvalid              = "ERR_CONFIG_INVALID"
	ErrCodeDuplicateName              = "ERR_DUPLICATE_NAME"
)

// SiteError is a structured error with the context needed to locate the failure.
type SiteError struct {
	Type    ErrorType
	Code    string
	Message string
	// Name is the logical template or style name, when one applies.
	Name string
	// Path is the filesystem path, when one applies.
	Path string
	// Inbuilt marks partial registration failures of the fixed partials.
	Inbuilt bool
	Cause   error
}

// Error implements the error interface.
func (e *SiteError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}

	parts = append(parts, e.Message)

	if e.Name != "" {
		parts = append(parts, fmt.Sprintf("'%s'", e.Name))
	}

	if e.Path != "" {
		parts = append(parts, "at '"+e.Path+"'")
	}

	result := strings.Join(parts, " ")

	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *SiteError) Unwrap() error {
	return e.Cause
}

// Is matches any SiteError with the same type and code, so the sentinels
// below can be used with errors.Is.
func (e *SiteError) Is(target error) bool {
	var t *SiteError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// Sentinels for errors.Is comparisons.
var (
	ErrMissingDir           = &SiteError{Type: ErrorTypeConfig, Code: ErrCodeDirMissing}
	ErrUnreadableDir        = &SiteError{Type: ErrorTypeIO, Code: ErrCodeDirRead}
	ErrUnreadableFile       = &SiteError{Type: ErrorTypeIO, Code: ErrCodeFileRead}
	ErrTemplateMissing      = &SiteError{Type: ErrorTypeTemplate, Code: ErrCodeTemplateNotFound}
	ErrPartialFailed        = &SiteError{Type: ErrorTypeTemplate, Code: ErrCodePartialRegistration}
	ErrInbuiltPartialFailed = &SiteError{Type: ErrorTypeTemplate, Code: ErrCodeInbuiltPartialRegistration}
	ErrRenderFailed         = &SiteError{Type: ErrorTypeTemplate, Code: ErrCodeRender}
	ErrStyleCompileFailed   = &SiteError{Type: ErrorTypeStyle, Code: ErrCodeStyleCompile}
	ErrCSSMinifyFailed      = &SiteError{Type: ErrorTypeStyle, Code: ErrCodeCSSMinify}
	ErrAssetCopyFailed      = &SiteError{Type: ErrorTypeAsset, Code: ErrCodeAssetCopy}
	ErrInvalidConfig        = &SiteError{Type: ErrorTypeConfig, Code: ErrCodeConfigInvalid}
	ErrNameCollision        = &SiteError{Type: ErrorTypeConfig, Code: ErrCodeDuplicateName}
)

// Error creation functions

// ErrDirectoryMissing reports a configured source directory that does not exist.
func ErrDirectoryMissing(path string) *SiteError {
	return &SiteError{
		Type:    ErrorTypeConfig,
		Code:    ErrCodeDirMissing,
		Message: "directory does not exist",
		Path:    path,
	}
}

// ErrDirectoryRead reports a directory that could not be listed.
func ErrDirectoryRead(path string, cause error) *SiteError {
	return &SiteError{
		Type:    ErrorTypeIO,
		Code:    ErrCodeDirRead,
		Message: "failed to read directory",
		Path:    path,
		Cause:   cause,
	}
}

// ErrDirectoryCreate reports a directory that could not be created.
func ErrDirectoryCreate(path string, cause error) *SiteError {
	return &SiteError{
		Type:    ErrorTypeIO,
		Code:    ErrCodeDirCreate,
		Message: "failed to create directory",
		Path:    path,
		Cause:   cause,
	}
}

// ErrDirectoryRemove reports a build directory that could not be cleared.
func ErrDirectoryRemove(path string, cause error) *SiteError {
	return &SiteError{
		Type:    ErrorTypeIO,
		Code:    ErrCodeDirRemove,
		Message: "failed to remove directory",
		Path:    path,
		Cause:   cause,
	}
}

// ErrFileRead reports a file that could not be read as text.
func ErrFileRead(path string, cause error) *SiteError {
	return &SiteError{
		Type:    ErrorTypeIO,
		Code:    ErrCodeFileRead,
		Message: "failed to read file",
		Path:    path,
		Cause:   cause,
	}
}

// ErrFileWrite reports an output file that could not be written.
func ErrFileWrite(path string, cause error) *SiteError {
	return &SiteError{
		Type:    ErrorTypeIO,
		Code:    ErrCodeFileWrite,
		Message: "failed to write file",
		Path:    path,
		Cause:   cause,
	}
}

// ErrTemplateNotFound reports a render request for an unknown template.
func ErrTemplateNotFound(name string) *SiteError {
	return &SiteError{
		Type:    ErrorTypeTemplate,
		Code:    ErrCodeTemplateNotFound,
		Message: "template does not exist with name",
		Name:    name,
	}
}

// ErrPartialRegistration reports a partial that failed to parse. inbuilt
// distinguishes the fixed partials from user templates.
func ErrPartialRegistration(name string, inbuilt bool, cause error) *SiteError {
	e := &SiteError{
		Type:    ErrorTypeTemplate,
		Code:    ErrCodePartialRegistration,
		Message: "failed to register partial",
		Name:    name,
		Inbuilt: inbuilt,
		Cause:   cause,
	}
	if inbuilt {
		e.Code = ErrCodeInbuiltPartialRegistration
		e.Message = "failed to register inbuilt partial"
	}

	return e
}

// ErrRender reports a template execution failure.
func ErrRender(name string, cause error) *SiteError {
	return &SiteError{
		Type:    ErrorTypeTemplate,
		Code:    ErrCodeRender,
		Message: "failed to render template with name",
		Name:    name,
		Cause:   cause,
	}
}

// ErrStyleCompile reports an SCSS compilation failure.
func ErrStyleCompile(name string, cause error) *SiteError {
	return &SiteError{
		Type:    ErrorTypeStyle,
		Code:    ErrCodeStyleCompile,
		Message: "failed to convert SCSS to CSS for",
		Name:    name,
		Cause:   cause,
	}
}

// ErrCSSMinify reports a CSS minification failure.
func ErrCSSMinify(name string, cause error) *SiteError {
	return &SiteError{
		Type:    ErrorTypeStyle,
		Code:    ErrCodeCSSMinify,
		Message: "failed to minify CSS for",
		Name:    name,
		Cause:   cause,
	}
}

// ErrHTMLMinify reports an HTML minification failure.
func ErrHTMLMinify(path string, cause error) *SiteError {
	return &SiteError{
		Type:    ErrorTypeIO,
		Code:    ErrCodeHTMLMinify,
		Message: "failed to minify HTML",
		Path:    path,
		Cause:   cause,
	}
}

// ErrAssetCopy reports a failure copying the public asset tree.
func ErrAssetCopy(cause error) *SiteError {
	return &SiteError{
		Type:    ErrorTypeAsset,
		Code:    ErrCodeAssetCopy,
		Message: "failed to copy public assets",
		Cause:   cause,
	}
}

// ErrConfigInvalid reports a configuration value that failed validation.
func ErrConfigInvalid(message string) *SiteError {
	return &SiteError{
		Type:    ErrorTypeConfig,
		Code:    ErrCodeConfigInvalid,
		Message: message,
	}
}

// ErrDuplicateName reports two source files that flatten to the same
// logical name.
func ErrDuplicateName(name, first, second string) *SiteError {
	return &SiteError{
		Type:    ErrorTypeConfig,
		Code:    ErrCodeDuplicateName,
		Message: fmt.Sprintf("'%s' and '%s' both flatten to", first, second),
		Name:    name,
	}
}

// IsType reports whether err is a SiteError of the given type.
func IsType(err error, t ErrorType) bool {
	var se *SiteError
	if errors.As(err, &se) {
		return se.Type == t
	}

	return false
}

// HasCode reports whether err is a SiteError with the given code.
func HasCode(err error, code string) bool {
	var se *SiteError
	if errors.As(err, &se) {
		return se.Code == code
	}

	return false
}

// As is errors.As re-exported so callers importing this package under the
// name "errors" keep access to it.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Is is errors.Is re-exported for the same reason as As.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// New is errors.New re-exported for the same reason as As.
func New(text string) error {
	return errors.New(text)
}

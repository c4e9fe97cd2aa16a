package wizard

import (
	"errors"
	"regexp"
	"strings"

	"github.com/shinyvision/vimagento/internal/magento"
	"github.com/shinyvision/vimagento/internal/naming"
	"github.com/shinyvision/vimagento/internal/php"
)

// SymbolResolver looks classes up in the user's project.
type SymbolResolver interface {
	ResolveClass(fqn string) (php.ClassSymbol, bool)
	ClassExists(fqn string) bool
}

var (
	classNameRe  = regexp.MustCompile(`^[A-Z][A-Za-z0-9]*$`)
	directoryRe  = regexp.MustCompile(`^[A-Za-z0-9]+(/[A-Za-z0-9]+)*$`)
	pluginNameRe = regexp.MustCompile(`^[A-Za-z0-9_\-]+$`)
	sortOrderRe  = regexp.MustCompile(`^-?[0-9]+$`)
)

// FieldError reports a problem with one wizard field.
type FieldError struct {
	Field   string
	Message string
	Err     error
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

func (e FieldError) Unwrap() error {
	return e.Err
}

// ValidationError collects every field error of a submission.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Error())
	}
	return strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() []error {
	errs := make([]error, 0, len(e.Fields))
	for _, f := range e.Fields {
		errs = append(errs, f)
	}
	return errs
}

// Field returns the error recorded for a field.
func (e *ValidationError) Field(name string) (FieldError, bool) {
	for _, f := range e.Fields {
		if f.Field == name {
			return f, true
		}
	}
	return FieldError{}, false
}

func (e *ValidationError) add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

func (e *ValidationError) addErr(field string, err error) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: err.Error(), Err: err})
}

func (e *ValidationError) has(field string) bool {
	_, ok := e.Field(field)
	return ok
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// AsValidationError unwraps err into a *ValidationError.
func AsValidationError(err error) (*ValidationError, bool) {
	var v *ValidationError
	ok := errors.As(err, &v)
	return v, ok
}

func validateClassName(v *ValidationError, field, value string) {
	switch {
	case value == "":
		v.add(field, "class name is required")
	case !classNameRe.MatchString(value):
		v.add(field, "class name must start with a capital letter and contain only letters and digits")
	}
}

func validateDirectory(v *ValidationError, field, value string) {
	switch {
	case value == "":
		v.add(field, "directory is required")
	case !directoryRe.MatchString(value):
		v.add(field, "directory may contain only letters, digits and / separators")
	}
}

func validateModule(v *ValidationError, catalog magento.ModuleCatalog, field, value string) {
	if value == "" {
		v.add(field, "module is required")
		return
	}
	if _, _, err := naming.ModuleSegments(value); err != nil {
		v.addErr(field, err)
		return
	}
	if catalog == nil {
		return
	}
	for _, name := range catalog.EditableModuleNames() {
		if name == value {
			return
		}
	}
	v.add(field, "module "+value+" is not an editable module of this project")
}

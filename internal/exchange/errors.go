package exchange

import (
	"fmt"

	"github.com/ShravyaChalla/fetch-rewards-assessment/internal/common"
)

// ParseError reports a line of an input file that is not a well-formed record.
type ParseError struct {
	Path string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.Path, e.Line, e.Err)
}

// Unwrap lets errors.Is match both common.ErrParse and the underlying cause.
func (e *ParseError) Unwrap() []error {
	return []error{common.ErrParse, e.Err}
}

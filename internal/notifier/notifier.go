package notifier

import (
	"fmt"
	"io"
)

// Notifier delivers a rendered report.
type Notifier interface {
	Send(text string) error
}

// WriterNotifier writes reports to an io.Writer such as os.Stdout.
type WriterNotifier struct {
	W io.Writer
}

func NewWriterNotifier(w io.Writer) *WriterNotifier { return &WriterNotifier{W: w} }

func (n *WriterNotifier) Send(text string) error {
	if _, err := fmt.Fprintln(n.W, text); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

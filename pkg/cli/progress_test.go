package cli

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"testing"
)

func TestSimpleProgress(t *testing.T) {
	buf := &bytes.Buffer{}
	progress := NewProgressReporter(buf)

	progress.Start(4)
	progress.Increment()
	progress.Increment()
	progress.Finish()

	output := buf.String()
	if !strings.Contains(output, "Checking:") {
		t.Errorf("output missing progress label: %q", output)
	}
	if !strings.Contains(output, "(2/4)") || !strings.Contains(output, "(4/4)") {
		t.Errorf("output missing counts: %q", output)
	}
	if !strings.HasSuffix(output, "\n") {
		t.Error("Finish() did not end the line")
	}
}

func TestSimpleProgress_ZeroTotal(t *testing.T) {
	buf := &bytes.Buffer{}
	progress := NewProgressReporter(buf)

	progress.Start(0)
	progress.Increment()
	progress.Finish()

	if buf.Len() != 0 {
		t.Errorf("output = %q, want none for zero total", buf.String())
	}
}

func TestSimpleProgress_Concurrent(t *testing.T) {
	buf := &bytes.Buffer{}
	progress := NewProgressReporter(buf).(*SimpleProgress)
	progress.Start(50)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			progress.Increment()
		}()
	}
	wg.Wait()

	if progress.current != 50 {
		t.Errorf("current = %d, want 50", progress.current)
	}
	progress.Increment()
	if progress.current != 50 {
		t.Errorf("current = %d after overflow, want 50", progress.current)
	}
}

func TestSimpleProgress_Error(t *testing.T) {
	buf := &bytes.Buffer{}
	progress := NewProgressReporter(buf)

	progress.Start(10)
	progress.Error(fmt.Errorf("read failed"))

	if !strings.Contains(buf.String(), "Error: read failed") {
		t.Errorf("output = %q", buf.String())
	}
}

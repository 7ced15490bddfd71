package progress

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"testing"
)

func TestCIReporter(t *testing.T) {
	var buf bytes.Buffer
	r := &CIReporter{Out: &buf}

	r.Start(2)
	r.Advance("index.html")
	r.Advance("films/akira.html")
	r.Finish()

	want := "Building 2 pages\n[1/2] index.html\n[2/2] films/akira.html\nSite build complete\n"
	if buf.String() != want {
		t.Errorf("output:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestCIReporterConcurrentAdvance(t *testing.T) {
	var buf bytes.Buffer
	r := &CIReporter{Out: &buf}
	r.Start(50)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r.Advance(fmt.Sprintf("page-%d.html", i))
		}(i)
	}
	wg.Wait()

	if !strings.Contains(buf.String(), "[50/50]") {
		t.Errorf("missing final count in output:\n%s", buf.String())
	}
}

func TestTerminalReporterBeforeStart(t *testing.T) {
	// Advance and Finish without Start must not panic.
	r := &TerminalReporter{}
	r.Advance("index.html")
	r.Finish()
}

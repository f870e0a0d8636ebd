package plot

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

type fakeRenderer struct {
	name   string
	called int
}

func (f *fakeRenderer) Name() string { return f.name }

func (f *fakeRenderer) Render(fig *Figure, w io.Writer) error {
	f.called++
	_, err := io.WriteString(w, f.name)
	return err
}

func TestRegistry(t *testing.T) {
	fake := &fakeRenderer{name: "fake"}
	Register(fake)

	r, err := Get("fake")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if r.Name() != "fake" {
		t.Errorf("wrong renderer: %s", r.Name())
	}

	found := false
	for _, name := range Names() {
		if name == "fake" {
			found = true
		}
	}
	if !found {
		t.Errorf("registered name missing from %v", Names())
	}

	var buf bytes.Buffer
	if err := Render(&Figure{}, "fake", &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	if fake.called != 1 || buf.String() != "fake" {
		t.Errorf("renderer not invoked: called=%d out=%q", fake.called, buf.String())
	}
}

func TestRegistryUnknown(t *testing.T) {
	Register(&fakeRenderer{name: "fake"})

	_, err := Get("imaginary")
	if err == nil {
		t.Fatal("expected error for unknown backend")
	}
	if !strings.Contains(err.Error(), "fake") {
		t.Errorf("error should list known backends, got %v", err)
	}
}

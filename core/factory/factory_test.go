package factory

import (
	"strings"
	"testing"
)

type fakeSink struct {
	URL string
}

type fakeSinkConf struct {
	URL string `json:"url"`
}

func newFakeSink(conf map[string]any) (*fakeSink, error) {
	var c fakeSinkConf
	if err := Decode(conf, &c); err != nil {
		return nil, err
	}
	return &fakeSink{URL: c.URL}, nil
}

func TestRegistryCreate(t *testing.T) {
	reg := NewRegistry[*fakeSink]()
	if err := reg.Register("influx", newFakeSink); err != nil {
		t.Fatalf("register: %v", err)
	}

	sink, err := reg.Create(ModuleConfig{
		Type: "influx",
		Conf: map[string]any{"url": "http://localhost:8086"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if sink.URL != "http://localhost:8086" {
		t.Fatalf("decoded url = %q", sink.URL)
	}
}

func TestRegistryErrors(t *testing.T) {
	reg := NewRegistry[*fakeSink]()
	if err := reg.Register("nop", newFakeSink); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := reg.Register("nop", newFakeSink); err == nil {
		t.Fatal("duplicate registration accepted")
	}
	if err := reg.Register("bad", nil); err == nil {
		t.Fatal("nil factory accepted")
	}

	_, err := reg.Create(ModuleConfig{Type: "prometheus"})
	if err == nil {
		t.Fatal("unknown type accepted")
	}
	if !strings.Contains(err.Error(), "nop") {
		t.Fatalf("error does not list known types: %v", err)
	}
}

func TestTypesSorted(t *testing.T) {
	reg := NewRegistry[*fakeSink]()
	for _, name := range []string{"prometheus", "influx", "nop"} {
		if err := reg.Register(name, newFakeSink); err != nil {
			t.Fatalf("register %s: %v", name, err)
		}
	}

	got := reg.Types()
	want := []string{"influx", "nop", "prometheus"}
	if len(got) != len(want) {
		t.Fatalf("types = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("types = %v, want %v", got, want)
		}
	}
}

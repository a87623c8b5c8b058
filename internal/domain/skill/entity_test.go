package skill

import (
	"reflect"
	"testing"
)

func TestKeys(t *testing.T) {
	got := Keys([]string{"Plumbing", " plumbing ", "", "Pipe Fitting", "PIPE FITTING", "  "})
	want := []string{"plumbing", "pipe fitting"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Keys() = %v, want %v", got, want)
	}
	if Key("  AC Servicing ") != "ac servicing" {
		t.Fatalf("Key() = %q", Key("  AC Servicing "))
	}
}

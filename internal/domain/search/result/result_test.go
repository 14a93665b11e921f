package result

import "testing"

func TestFacetOptions_FillsMissing(t *testing.T) {
	r := Result{Facets: map[string][]Bucket{
		"subject": {{Value: "CS", Count: 12}},
	}}
	got := r.FacetOptions([]string{"nupath", "subject"})
	if got["nupath"] == nil || len(got["nupath"]) != 0 {
		t.Errorf("nupath = %#v, want empty non-nil", got["nupath"])
	}
	if len(got["subject"]) != 1 || got["subject"][0].Count != 12 {
		t.Errorf("subject = %#v", got["subject"])
	}
}

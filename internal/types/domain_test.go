package types

import (
	"encoding/json"
	"testing"
)

func TestTimeInput_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		body string
		want TimeInput
	}{
		{"string", `{"time":"30"}`, "30"},
		{"integer", `{"time":45}`, "45"},
		{"fraction truncates", `{"time":30.7}`, "30"},
		{"exponent", `{"time":1e2}`, "100"},
		{"negative", `{"time":-5.9}`, "-5"},
		{"boolean", `{"time":true}`, ""},
		{"object", `{"time":{"m":1}}`, ""},
		{"empty object", `{"time":{}}`, ""},
		{"array", `{"time":[]}`, ""},
		{"null", `{"time":null}`, ""},
		{"absent", `{}`, ""},
		{"free text", `{"time":"about an hour"}`, "about an hour"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req SuggestRequest
			if err := json.Unmarshal([]byte(tt.body), &req); err != nil {
				t.Fatalf("Unmarshal failed: %v", err)
			}
			if req.Time != tt.want {
				t.Errorf("Time = %q, want %q", req.Time, tt.want)
			}
		})
	}
}

func TestTimeInput_NonScalarKeepsRestOfRequest(t *testing.T) {
	var req SuggestRequest
	body := `{"location":"Paris","time":true,"preference":"chill","budget":"low"}`
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	want := SuggestRequest{Location: "Paris", Preference: "chill", Budget: "low"}
	if req != want {
		t.Errorf("req = %+v, want %+v", req, want)
	}
}

func TestRecommendation_OmitsEmptyAlternative(t *testing.T) {
	data, err := json.Marshal(Recommendation{Name: "City Walk", Score: 80})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if _, ok := fields["alternative"]; ok {
		t.Error("alternative should be omitted when empty")
	}
	for _, key := range []string{"name", "walk_minutes", "duration", "reasons", "score", "weather", "must_take"} {
		if _, ok := fields[key]; !ok {
			t.Errorf("missing field %q", key)
		}
	}
}

func TestSuggestRequest_Normalized(t *testing.T) {
	req := SuggestRequest{Location: "  Paris ", Preference: " romantic", Budget: "premium  "}.Normalized()
	if req.Location != "Paris" || req.Preference != "romantic" || req.Budget != "premium" {
		t.Errorf("Normalized() = %+v", req)
	}
}

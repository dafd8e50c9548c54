package domain

import (
	"errors"
	"testing"
)

func TestDecodeSubmission_CoercesValues(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want Submission
	}{
		{"strings", `{"name":"Ana","email":"a@x.com","message":"Hi","timestamp":"2024-01-01T00:00:00.000Z"}`,
			Submission{Name: "Ana", Email: "a@x.com", Message: "Hi", Timestamp: "2024-01-01T00:00:00.000Z"}},
		{"epoch millis", `{"timestamp":1704067200000}`, Submission{Timestamp: "1704067200000"}},
		{"number and bool", `{"name":42,"email":true}`, Submission{Name: "42", Email: "true"}},
		{"nested", `{"message":{"a": [1, 2]}}`, Submission{Message: `{"a":[1,2]}`}},
		{"null and missing", `{"name":null}`, Submission{}},
		{"extra keys and id", `{"id":"seven","phone":5,"name":"x"}`, Submission{Name: "x"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DecodeSubmission([]byte(tc.in))
			if err != nil {
				t.Fatalf("DecodeSubmission(%s): %v", tc.in, err)
			}
			if got != tc.want {
				t.Fatalf("DecodeSubmission(%s) = %+v; want %+v", tc.in, got, tc.want)
			}
		})
	}
}

func TestDecodeSubmission_RejectsNonObjects(t *testing.T) {
	for _, in := range []string{``, `{"name":`, `not json`, `[1,2]`, `"text"`, `42`} {
		if _, err := DecodeSubmission([]byte(in)); err == nil {
			t.Fatalf("DecodeSubmission(%q) should fail", in)
		}
	}
	if _, err := DecodeSubmission([]byte(`null`)); !errors.Is(err, ErrNotObject) {
		t.Fatalf("null: err = %v; want ErrNotObject", err)
	}
}

package validator

import "testing"

type clockRequest struct {
	Start string  `validate:"required,hhmm"`
	End   *string `validate:"omitempty,hhmm"`
	Day   int     `validate:"min=0,max=6"`
}

func TestEchoValidator_HHMM(t *testing.T) {
	v := New()
	ok := "17:30"
	bad := "24:00"

	cases := []struct {
		name    string
		req     clockRequest
		wantErr bool
	}{
		{"valid", clockRequest{Start: "09:00", End: &ok, Day: 1}, false},
		{"nil optional end", clockRequest{Start: "00:00", Day: 0}, false},
		{"single digit hour", clockRequest{Start: "9:00", Day: 1}, true},
		{"hour out of range", clockRequest{Start: "09:00", End: &bad, Day: 1}, true},
		{"day out of range", clockRequest{Start: "09:00", Day: 7}, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := v.Validate(c.req)
			if (err != nil) != c.wantErr {
				t.Fatalf("Validate() err = %v, wantErr %v", err, c.wantErr)
			}
		})
	}
}

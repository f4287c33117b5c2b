package apperr

import (
	"errors"
	"net/http"
	"testing"
)

func TestStatus(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"not found", ErrNotFound, http.StatusNotFound},
		{"expired", ErrExpired, http.StatusGone},
		{"already checked out", ErrAlreadyCheckedOut, http.StatusConflict},
		{"already checked in", ErrAlreadyCheckedIn, http.StatusConflict},
		{"store", ErrStore, http.StatusInternalServerError},
		{"unclassified", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := Status(c.err); got != c.want {
			t.Errorf("%s: Status = %d, want %d", c.name, got, c.want)
		}
	}
}

func TestMessageHidesInternalErrors(t *testing.T) {
	t.Parallel()
	wrapped := Store(errors.New("dial tcp 127.0.0.1:3306: connection refused"))
	if msg := Message(wrapped); msg != "something went wrong, please try again" {
		t.Errorf("Message for store error = %q, want the generic text", msg)
	}
	if msg := Message(ErrExpired); msg != ErrExpired.Error() {
		t.Errorf("Message for taxonomy error = %q, want %q", msg, ErrExpired.Error())
	}
}

func TestStoreClassifies(t *testing.T) {
	t.Parallel()
	cause := errors.New("driver: bad connection")
	err := Store(cause)
	if !errors.Is(err, ErrStore) {
		t.Error("Store result does not match ErrStore")
	}
	if Status(err) != http.StatusInternalServerError {
		t.Errorf("Status(Store(err)) = %d, want 500", Status(err))
	}
}

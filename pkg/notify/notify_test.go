package notify_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stillmatic/bobaline/pkg/notify"
)

func TestTwilioSMSSend(t *testing.T) {
	var gotPath, gotTo, gotBody string
	var gotAuth bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _, gotAuth = r.BasicAuth()
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm: %v", err)
		}
		gotTo = r.PostForm.Get("To")
		gotBody = r.PostForm.Get("Body")
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	sms := notify.NewTwilioSMS("AC123", "token", "+15550001111", notify.WithBaseURL(srv.URL))
	if err := sms.OrderReceived(context.Background(), "2835", "+16145551234"); err != nil {
		t.Fatalf("OrderReceived: %v", err)
	}
	if gotPath != "/Accounts/AC123/Messages.json" {
		t.Errorf("path = %s", gotPath)
	}
	if !gotAuth {
		t.Error("request was not basic-authed")
	}
	if gotTo != "+16145551234" {
		t.Errorf("To = %s", gotTo)
	}
	if !strings.Contains(gotBody, "2835") {
		t.Errorf("body %q does not mention the order number", gotBody)
	}
}

func TestTwilioSMSErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"code": 21211}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	sms := notify.NewTwilioSMS("AC123", "token", "+15550001111", notify.WithBaseURL(srv.URL))
	if err := sms.OrderReady(context.Background(), "2835", "bad"); err == nil {
		t.Fatal("expected an error for a 400 response")
	}
}

func TestLogOnlyNeverFails(t *testing.T) {
	n := &notify.LogOnly{}
	if err := n.OrderReceived(context.Background(), "1111", "+16145551234"); err != nil {
		t.Fatalf("OrderReceived: %v", err)
	}
	if err := n.OrderReady(context.Background(), "1111", "+16145551234"); err != nil {
		t.Fatalf("OrderReady: %v", err)
	}
}

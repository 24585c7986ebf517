package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func loginRequest(username, password string) *http.Request {
	form := url.Values{"username": {username}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestAdminLogin(t *testing.T) {
	r, _ := newTestSite(t, &fakeSender{})

	rec := serve(r, loginRequest("admin", "wrong"))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bad password: status = %d, want 401", rec.Code)
	}

	rec = serve(r, loginRequest("admin", "secret"))
	if rec.Code != http.StatusFound {
		t.Fatalf("good password: status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/admin/dashboard" {
		t.Errorf("Location = %q", loc)
	}
	if len(rec.Result().Cookies()) == 0 {
		t.Error("expected admin_token cookie")
	}
}

func TestAdminRoutesNeedToken(t *testing.T) {
	r, adm := newTestSite(t, &fakeSender{})

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil))
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/admin/login" {
		t.Errorf("without cookie: status = %d, Location = %q", rec.Code, rec.Header().Get("Location"))
	}

	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: "admin_token", Value: "forged"})
	if rec := serve(r, req); rec.Code != http.StatusFound {
		t.Errorf("forged cookie: status = %d, want 302", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: "admin_token", Value: adm.token})
	rec = serve(r, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("valid cookie: status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Contact submissions") {
		t.Error("dashboard should list contact submissions")
	}
}

func TestAdminStats(t *testing.T) {
	r, adm := newTestSite(t, &fakeSender{})

	adm.trackVisitor("10.0.0.1", "test-agent", "/")
	adm.trackVisitor("10.0.0.1", "test-agent", "/")
	adm.trackVisitor("10.0.0.2", "test-agent", "/")
	adm.recordSubmission("10.0.0.1", submissionSent, "", true)
	adm.recordSubmission("10.0.0.2", submissionFailed, "disk full", false)
	adm.recordSubmission("10.0.0.2", submissionRejectedFile, fileTooLargeText, true)

	req := httptest.NewRequest(http.MethodGet, "/admin/api/stats", nil)
	req.AddCookie(&http.Cookie{Name: "admin_token", Value: adm.token})
	rec := serve(r, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var stats AdminStats
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}

	checks := []struct {
		name      string
		got, want int64
	}{
		{"total visitors", stats.TotalVisitors, 3},
		{"unique visitors", stats.UniqueVisitors, 2},
		{"visitors today", stats.VisitorsToday, 3},
		{"total submissions", stats.TotalSubmissions, 3},
		{"sent", stats.SentSubmissions, 1},
		{"failed", stats.FailedSubmissions, 1},
		{"rejected files", stats.RejectedFiles, 1},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %d, want %d", c.name, c.got, c.want)
		}
	}
}

func TestHashIPIsStablePerIP(t *testing.T) {
	adm := &admin{hashingSalt: "salt"}

	a, b := adm.hashIP("192.168.1.1"), adm.hashIP("192.168.1.1")
	if a != b {
		t.Errorf("same IP hashed differently: %s vs %s", a, b)
	}
	if len(a) != 16 {
		t.Errorf("hash length = %d, want 16", len(a))
	}
	if a == adm.hashIP("192.168.1.2") {
		t.Error("different IPs should not share a hash")
	}
	if strings.Contains(a, "192") {
		t.Error("hash should not contain the raw IP")
	}
}

func TestRecordSubmissionWithoutAdmin(t *testing.T) {
	var adm *admin
	if id := adm.recordSubmission("10.0.0.1", submissionSent, "", false); id == "" {
		t.Error("expected an id even without storage")
	}
}

package domain

import (
	"testing"
	"time"
)

func TestArticleStatus_IsValid(t *testing.T) {
	for _, s := range ArticleStatuses {
		if !s.IsValid() {
			t.Errorf("expected %s to be valid", s)
		}
	}
	if ArticleStatus("DELETED").IsValid() {
		t.Error("expected DELETED to be invalid")
	}
	if ArticleStatus("draft").IsValid() {
		t.Error("status is case sensitive")
	}
}

func TestArticleType_IsValid(t *testing.T) {
	if !TypeLiveblog.IsValid() {
		t.Error("expected LIVEBLOG to be valid")
	}
	if ArticleType("PODCAST").IsValid() {
		t.Error("expected PODCAST to be invalid")
	}
}

func TestArticle_LockHolder(t *testing.T) {
	a := &Article{}
	if a.LockHolder() != "" {
		t.Errorf("expected empty holder, got %q", a.LockHolder())
	}
	holder := "user-a"
	a.LockedBy = &holder
	if a.LockHolder() != "user-a" {
		t.Errorf("expected user-a, got %q", a.LockHolder())
	}
}

func TestReasons(t *testing.T) {
	if got := ReasonRollback(12); got != "rollback to version 12" {
		t.Errorf("unexpected reason %q", got)
	}
	if got := ReasonStatusChanged(StatusPublished); got != "status changed to PUBLISHED" {
		t.Errorf("unexpected reason %q", got)
	}
}

func TestArticleFilter_Normalize(t *testing.T) {
	f := ArticleFilter{}
	f.Normalize()
	if f.Page != 1 || f.Limit != 20 || f.OrderBy != "created_at" || f.Order != "desc" {
		t.Errorf("unexpected defaults: %+v", f)
	}

	f = ArticleFilter{Page: 3, Limit: 10}
	f.Normalize()
	if f.Offset() != 20 {
		t.Errorf("expected offset 20, got %d", f.Offset())
	}
}

func TestUpdateArticleRequest_IsEmpty(t *testing.T) {
	if !(&UpdateArticleRequest{}).IsEmpty() {
		t.Error("expected empty patch")
	}
	tags := []string{}
	if (&UpdateArticleRequest{TagIDs: &tags}).IsEmpty() {
		t.Error("an empty tag list still clears tags")
	}
}

func TestNewArticleEvent(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.FixedZone("KST", 9*3600))
	ev := NewArticleEvent(AuditChangeStatus, &Article{ID: "a1", SiteID: "s1", Status: StatusPublished, Version: 3}, "u1", at)
	if ev.ArticleID != "a1" || ev.Version != 3 || ev.ActorID != "u1" {
		t.Errorf("unexpected event %+v", ev)
	}
	if ev.Timestamp.Location() != time.UTC || !ev.Timestamp.Equal(at) {
		t.Errorf("expected UTC timestamp, got %v", ev.Timestamp)
	}
}

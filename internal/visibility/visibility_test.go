package visibility

import (
	"testing"

	"careernest/internal/domain/posting"
	"careernest/internal/domain/user"
)

func samplePostings() []posting.Posting {
	return []posting.Posting{
		{ID: "p1", PostedBy: "r1@corp.example", ApprovalStatus: posting.StatusPending},
		{ID: "p2", PostedBy: "r1@corp.example", ApprovalStatus: posting.StatusApproved},
		{ID: "p3", PostedBy: "r2@corp.example", ApprovalStatus: posting.StatusApproved},
		{ID: "p4", PostedBy: "r2@corp.example", ApprovalStatus: posting.StatusRejected},
	}
}

func ids(items []posting.Posting) []string {
	out := make([]string, 0, len(items))
	for _, p := range items {
		out = append(out, p.ID)
	}
	return out
}

func equal(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestVisibleStudent(t *testing.T) {
	actor := user.User{Email: "s@uni.example", Role: user.RoleStudent}
	got := ids(Visible(samplePostings(), actor))
	if !equal(got, []string{"p2", "p3"}) {
		t.Fatalf("student view = %v, want approved only in order", got)
	}
}

func TestVisibleRecruiterOwnRegardlessOfStatus(t *testing.T) {
	actor := user.User{Email: "r1@corp.example", Role: user.RoleRecruiter}
	got := ids(Visible(samplePostings(), actor))
	if !equal(got, []string{"p1", "p2"}) {
		t.Fatalf("recruiter view = %v, want own postings in order", got)
	}
}

func TestVisibleAdminSeesAll(t *testing.T) {
	actor := user.User{Email: "a@site.example", Role: user.RoleAdmin}
	got := ids(Visible(samplePostings(), actor))
	if !equal(got, []string{"p1", "p2", "p3", "p4"}) {
		t.Fatalf("admin view = %v, want everything in order", got)
	}
}

func TestVisibleTruthTable(t *testing.T) {
	statuses := []posting.ApprovalStatus{posting.StatusPending, posting.StatusApproved, posting.StatusRejected}
	actors := []user.User{
		{Email: "s@uni.example", Role: user.RoleStudent},
		{Email: "owner@corp.example", Role: user.RoleRecruiter},
		{Email: "other@corp.example", Role: user.RoleRecruiter},
		{Email: "a@site.example", Role: user.RoleAdmin},
	}
	for _, status := range statuses {
		p := posting.Posting{ID: "p", PostedBy: "owner@corp.example", ApprovalStatus: status}
		for _, actor := range actors {
			visible := len(Visible([]posting.Posting{p}, actor)) == 1
			want := actor.Role == user.RoleAdmin ||
				(actor.Role == user.RoleStudent && status == posting.StatusApproved) ||
				(actor.Role == user.RoleRecruiter && p.PostedBy == actor.Email)
			if visible != want {
				t.Fatalf("role %s, status %s: visible=%v, want %v", actor.Role, status, visible, want)
			}
		}
	}
}

func TestPartitionByStatus(t *testing.T) {
	buckets := PartitionByStatus(samplePostings())
	if got := ids(buckets[posting.StatusApproved]); !equal(got, []string{"p2", "p3"}) {
		t.Fatalf("approved bucket = %v", got)
	}
	if len(buckets[posting.StatusPending]) != 1 || len(buckets[posting.StatusRejected]) != 1 {
		t.Fatalf("unexpected bucket sizes: %d pending, %d rejected", len(buckets[posting.StatusPending]), len(buckets[posting.StatusRejected]))
	}
}

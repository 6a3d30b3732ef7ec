package visibility

import (
	"careernest/internal/domain/posting"
	"careernest/internal/domain/user"
)

// Visible returns the subset of postings the actor may see. Students see
// approved postings only; recruiters see their own regardless of status;
// admins see everything. Backend response order is preserved.
func Visible(postings []posting.Posting, actor user.User) []posting.Posting {
	if actor.Role == user.RoleAdmin {
		return append([]posting.Posting(nil), postings...)
	}
	visible := make([]posting.Posting, 0, len(postings))
	for _, p := range postings {
		switch actor.Role {
		case user.RoleStudent:
			if p.ApprovalStatus == posting.StatusApproved {
				visible = append(visible, p)
			}
		case user.RoleRecruiter:
			if p.PostedBy == actor.Email {
				visible = append(visible, p)
			}
		}
	}
	return visible
}

// PartitionByStatus splits a collection for the admin review tabs, keeping
// the incoming order within each bucket.
func PartitionByStatus(postings []posting.Posting) map[posting.ApprovalStatus][]posting.Posting {
	buckets := make(map[posting.ApprovalStatus][]posting.Posting, 3)
	for _, p := range postings {
		buckets[p.ApprovalStatus] = append(buckets[p.ApprovalStatus], p)
	}
	return buckets
}

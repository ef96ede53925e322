package auth

import "github.com/dmitrijs2005/sailblog/internal/common"

// Authorizer decides whether requesterID may mutate a resource owned by
// ownerID. It returns nil when allowed and common.ErrorForbidden otherwise.
type Authorizer interface {
	Authorize(requesterID, ownerID string) error
}

// OwnerOnly allows a mutation only by the resource owner.
type OwnerOnly struct{}

func (OwnerOnly) Authorize(requesterID, ownerID string) error {
	if requesterID == "" || requesterID != ownerID {
		return common.ErrorForbidden
	}
	return nil
}

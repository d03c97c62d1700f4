package instagram

import (
	"context"

	"ig-engagement-be/pkg/resilience"
)

// DispatchOutcome is the result of a single outbound send. It is always
// surfaced to the caller, never silently dropped.
type DispatchOutcome struct {
	Success bool
	Error   *resilience.ClassifiedError
}

// Transport is the narrow messaging capability the engagement core consumes.
// The raw Graph API protocol lives behind it.
type Transport interface {
	SendDirectMessage(ctx context.Context, recipientID, text string) DispatchOutcome
	ReplyToComment(ctx context.Context, commentID, text string) DispatchOutcome
}

// FollowOracle reports whether a commenter follows the business account.
type FollowOracle interface {
	IsFollowing(ctx context.Context, handle string) (bool, error)
}

// SimulatedFollowOracle answers follow checks from a fixed set. The Graph API
// does not expose follower status to business integrations, so deployments
// feed this from their own follower sync.
type SimulatedFollowOracle struct {
	Followers map[string]bool
	Default   bool
}

func NewSimulatedFollowOracle(followers map[string]bool, fallback bool) *SimulatedFollowOracle {
	if followers == nil {
		followers = make(map[string]bool)
	}
	return &SimulatedFollowOracle{Followers: followers, Default: fallback}
}

func (o *SimulatedFollowOracle) IsFollowing(ctx context.Context, handle string) (bool, error) {
	if following, ok := o.Followers[handle]; ok {
		return following, nil
	}
	return o.Default, nil
}

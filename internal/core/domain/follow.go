package domain

import "time"

// FollowEdge is a directed "follower follows following" relation.
type FollowEdge struct {
	FollowerID  string    `json:"followerId"`
	FollowingID string    `json:"followingId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// FollowStats holds the number of followers and followed accounts.
type FollowStats struct {
	Followers int64 `json:"followers"`
	Following int64 `json:"following"`
}

// RelationStatus describes the edges between two accounts, seen from the actor.
type RelationStatus struct {
	IsFollowing  bool `json:"isFollowing"`
	IsFollowedBy bool `json:"isFollowedBy"`
}

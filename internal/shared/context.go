package shared

import "context"

// Member roles within a house.
const (
	RoleMaster = "MASTER"
	RoleAdmin  = "ADMIN"
	RoleMember = "MEMBER"
)

// Actor identifies the authenticated user and their house membership for the
// duration of a request. Core services never read it from context themselves;
// handlers extract it and pass the house id explicitly.
type Actor struct {
	UserID   int64
	Username string
	Email    string
	HouseID  int64
	Role     string
}

type actorContextKey struct{}

// ContextWithActor stores the acting member in context.
func ContextWithActor(ctx context.Context, actor *Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// ActorFromContext extracts the acting member from context.
func ActorFromContext(ctx context.Context) *Actor {
	actor, _ := ctx.Value(actorContextKey{}).(*Actor)
	return actor
}

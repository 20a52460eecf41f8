// Package rights holds the static role-to-permission table consulted before
// any resource is loaded. It is the coarse gate: it answers whether a role may
// ever perform an action class, not whether the actor may touch a specific
// resource (that is the per-entity policy's job).
package rights

import "github.com/hirafie/hirafie-backend/internal/domain/user"

// Action names an operation class guarded by the rights table.
type Action string

const (
	GetPosts   Action = "getPosts"
	GetPost    Action = "getPost"
	CreatePost Action = "createPost"
	UpdatePost Action = "updatePost"
	DeletePost Action = "deletePost"

	CreateOrder Action = "createOrder"
	GetOrders   Action = "getOrders"
	GetOrder    Action = "getOrder"
	UpdateOrder Action = "updateOrder"
	DeleteOrder Action = "deleteOrder"

	GetUsers   Action = "getUsers"
	GetUser    Action = "getUser"
	UpdateUser Action = "updateUser"
	DeleteUser Action = "deleteUser"
)

// table is built once at init and never mutated afterwards.
var table = map[user.Role]map[Action]struct{}{
	user.RoleClient: actionSet(
		GetPosts, GetPost,
		CreateOrder, GetOrders, GetOrder, UpdateOrder, DeleteOrder,
		GetUser, UpdateUser,
	),
	user.RoleArtisan: actionSet(
		GetPosts, GetPost, CreatePost, UpdatePost, DeletePost,
		GetOrders, GetOrder, UpdateOrder,
		GetUser, UpdateUser,
	),
	user.RoleAdmin: actionSet(
		GetPosts, GetPost, CreatePost, UpdatePost, DeletePost,
		GetOrders, GetOrder, UpdateOrder, DeleteOrder,
		GetUsers, GetUser, UpdateUser, DeleteUser,
	),
}

func actionSet(actions ...Action) map[Action]struct{} {
	set := make(map[Action]struct{}, len(actions))
	for _, a := range actions {
		set[a] = struct{}{}
	}
	return set
}

// Has reports whether the role is ever allowed to perform the action.
func Has(role user.Role, action Action) bool {
	actions, ok := table[role]
	if !ok {
		return false
	}
	_, ok = actions[action]
	return ok
}

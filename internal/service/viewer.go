// Package service holds the application's use cases. Handlers pass the
// request's Viewer in explicitly and get view-models back.
package service

// Viewer is the actor making a request. The zero value is anonymous.
type Viewer struct {
	ID       uint
	Username string
}

func (v Viewer) IsAuthenticated() bool {
	return v.ID != 0
}

// Owns reports whether the viewer is the given author.
func (v Viewer) Owns(authorID uint) bool {
	return v.IsAuthenticated() && v.ID == authorID
}

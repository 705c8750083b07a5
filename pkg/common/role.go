package common

type Role string

const (
	Admin     Role = "ADMIN"
	Moderator Role = "MODERATOR"
	User      Role = "USER"
)

// CanModerate reports whether the role may review other users' orders.
func (r Role) CanModerate() bool {
	return r == Admin || r == Moderator
}

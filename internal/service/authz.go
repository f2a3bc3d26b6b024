package service

import (
	"errors"

	"github.com/mammadov115/codeshift-blog/internal/db"
	"gorm.io/gorm"
)

// ActorKind tags the Actor union. Every request resolves to exactly one
// kind before any permission rule runs.
type ActorKind int

const (
	ActorAnonymous ActorKind = iota
	ActorReader
	ActorAuthor
	ActorStaff
)

// Actor is who is making the request. The zero value is the anonymous
// actor. The profile payload matching the kind is populated when the
// account has one; a role-less non-staff account is classified as a
// reader with a nil profile.
type Actor struct {
	Kind   ActorKind
	User   *db.User
	Author *db.AuthorProfile
	Reader *db.ReaderProfile
}

// Anonymous returns the unauthenticated actor.
func Anonymous() Actor {
	return Actor{Kind: ActorAnonymous}
}

// IsAuthenticated reports whether the actor is backed by an account.
func (a Actor) IsAuthenticated() bool {
	return a.User != nil
}

// IsStaff reports whether the actor has staff or superuser privileges.
func (a Actor) IsStaff() bool {
	return a.User != nil && (a.User.IsStaff || a.User.IsSuperuser)
}

// ActorFromUser classifies a loaded user into an Actor. The user's
// profile associations must already be populated.
func ActorFromUser(user *db.User) Actor {
	if user == nil {
		return Anonymous()
	}

	actor := Actor{
		User:   user,
		Author: user.AuthorProfile,
		Reader: user.ReaderProfile,
	}

	switch {
	case user.IsStaff || user.IsSuperuser:
		actor.Kind = ActorStaff
	case user.AuthorProfile != nil:
		actor.Kind = ActorAuthor
	default:
		actor.Kind = ActorReader
	}

	return actor
}

// ResolveActor loads the account behind userID along with its profiles and
// classifies it. A zero userID resolves to the anonymous actor; a stale
// session pointing at a deleted account does too.
func ResolveActor(gdb *gorm.DB, userID uint) (Actor, error) {
	if userID == 0 {
		return Anonymous(), nil
	}

	var user db.User
	err := gdb.Preload("AuthorProfile").Preload("ReaderProfile").First(&user, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Anonymous(), nil
		}
		return Anonymous(), err
	}

	return ActorFromUser(&user), nil
}

// Authorizer evaluates whether an actor may perform an action on a
// resource. It is stateless and never mutates anything; it only combines
// authentication state, role, and ownership. Authentication is always
// checked before ownership or role, so an anonymous actor learns nothing
// about a resource beyond what universal reads already expose.
type Authorizer struct{}

// NewAuthorizer creates an Authorizer.
func NewAuthorizer() *Authorizer {
	return &Authorizer{}
}

// RequireAnonymous gates register and login, which only make sense for
// actors without an account session.
func (az *Authorizer) RequireAnonymous(actor Actor) error {
	if actor.IsAuthenticated() {
		return ErrAlreadyAuthenticated
	}
	return nil
}

// CanListProfiles gates the author and reader directories, which are only
// visible to authenticated actors. Individual profile reads stay universal.
func (az *Authorizer) CanListProfiles(actor Actor) error {
	if !actor.IsAuthenticated() {
		return ErrForbidden
	}
	return nil
}

// CanMutateProfile allows profile writes only for the account the profile
// belongs to. Staff get no special treatment here.
func (az *Authorizer) CanMutateProfile(actor Actor, ownerUserID uint) error {
	if !actor.IsAuthenticated() {
		return ErrForbidden
	}
	if actor.User.ID != ownerUserID {
		return ErrForbidden
	}
	return nil
}

// CanMutateCategory allows category writes for staff only. Reads are
// universal and never pass through here.
func (az *Authorizer) CanMutateCategory(actor Actor) error {
	if !actor.IsAuthenticated() {
		return ErrForbidden
	}
	if !actor.IsStaff() {
		return ErrForbidden
	}
	return nil
}

// CanMutateTag follows the category rule: tags are curated vocabulary,
// writable by staff only.
func (az *Authorizer) CanMutateTag(actor Actor) error {
	return az.CanMutateCategory(actor)
}

// CanCreatePost permits post creation for verified authors. The ownership
// predicate cannot apply at creation time since no post exists yet, so the
// verified-author predicate stands alone.
func (az *Authorizer) CanCreatePost(actor Actor) error {
	if !actor.IsAuthenticated() {
		return ErrForbidden
	}
	if az.isVerifiedAuthor(actor) {
		return nil
	}
	return ErrForbidden
}

// CanMutatePost permits update and delete for the owning author.
func (az *Authorizer) CanMutatePost(actor Actor, post *db.Post) error {
	if !actor.IsAuthenticated() {
		return ErrForbidden
	}
	if az.ownsPost(actor, post) {
		return nil
	}
	return ErrForbidden
}

// CanCreateComment permits commenting for any authenticated actor.
func (az *Authorizer) CanCreateComment(actor Actor) error {
	if !actor.IsAuthenticated() {
		return ErrForbidden
	}
	return nil
}

// CanMutateComment permits comment edits and deletes for the comment's
// owner, staff, or a superuser.
func (az *Authorizer) CanMutateComment(actor Actor, comment *db.Comment) error {
	if !actor.IsAuthenticated() {
		return ErrForbidden
	}
	if actor.IsStaff() {
		return nil
	}
	if comment != nil && comment.UserID == actor.User.ID {
		return nil
	}
	return ErrForbidden
}

func (az *Authorizer) isVerifiedAuthor(actor Actor) bool {
	return actor.Author != nil && actor.Author.Verified
}

func (az *Authorizer) ownsPost(actor Actor, post *db.Post) bool {
	return actor.Author != nil && post != nil && post.AuthorID == actor.Author.ID
}

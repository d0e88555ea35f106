// Package routing is the forwarding authorization policy: a pure function of
// (actor snapshot, document snapshot) deciding whether a forward or park is
// permitted and which recipients are admissible. It holds no state and touches
// no storage, so every rule is testable without a database.
package routing

import (
	"fmt"

	"github.com/paperdesk/doc_tracking_app/internal/apperrors"
)

// Grant identifies which policy case admitted the actor. The recipient rules
// differ per grant, so callers must filter candidates with the grant that
// admitted them.
type Grant string

const (
	// GrantReceiveDesk admits intake staff and superusers to forward any
	// document regardless of custody.
	GrantReceiveDesk Grant = "RECEIVE_DESK"
	// GrantSectionHead admits a section head forwarding a document they hold.
	GrantSectionHead Grant = "SECTION_HEAD"
	// GrantHolder admits the current holder, restricted to their section head.
	GrantHolder Grant = "HOLDER"
)

// Actor is the policy's snapshot of the acting user. IsReceiveDesk covers both
// the receive_section role and membership of the designated intake section;
// superusers are admitted by the same case.
type Actor struct {
	UserID        string
	SectionID     *string
	SubSectionID  *string
	IsActive      bool
	IsSuperuser   bool
	IsSectionHead bool
	IsReceiveDesk bool
}

// DocumentState is the policy's snapshot of the document being acted on.
type DocumentState struct {
	CurrentHolder    *string
	CurrentSectionID *string
	Terminal         bool
}

// Recipient is the policy's snapshot of a candidate transfer target.
type Recipient struct {
	UserID        string
	SectionID     *string
	IsActive      bool
	IsSuperuser   bool
	IsSectionHead bool
	IsReceiveDesk bool
}

// Decide evaluates the hard gates and the priority-ordered cases and returns
// the grant admitting the actor to forward or park the document. Cases, first
// match wins:
//
//  1. receive-desk capability or superuser: always permitted
//  2. section head holding the document
//  3. current holder
//  4. otherwise forbidden
//
// Terminal status freezes custody for every actor, superusers included.
func Decide(actor Actor, doc DocumentState) (Grant, error) {
	if !actor.IsActive {
		return "", fmt.Errorf("%w: actor is inactive", apperrors.ErrForbidden)
	}
	if doc.Terminal {
		return "", fmt.Errorf("%w: document status is terminal", apperrors.ErrInvalidState)
	}

	if actor.IsReceiveDesk || actor.IsSuperuser {
		return GrantReceiveDesk, nil
	}

	holder := doc.CurrentHolder != nil && *doc.CurrentHolder == actor.UserID
	if actor.IsSectionHead && holder {
		return GrantSectionHead, nil
	}
	if holder {
		return GrantHolder, nil
	}

	return "", fmt.Errorf("%w: actor is neither intake staff nor the current holder", apperrors.ErrForbidden)
}

// RecipientAllowed reports whether recipient is an admissible transfer target
// under the given grant.
//
//   - RECEIVE_DESK: any active non-superuser except the current holder.
//   - SECTION_HEAD: active non-superusers in the actor's own section (except
//     the actor), other section heads, and receive-desk users.
//   - HOLDER: section heads of the actor's own section only.
func RecipientAllowed(grant Grant, actor Actor, doc DocumentState, recipient Recipient) bool {
	if !recipient.IsActive {
		return false
	}

	switch grant {
	case GrantReceiveDesk:
		if recipient.IsSuperuser {
			return false
		}
		if doc.CurrentHolder != nil && recipient.UserID == *doc.CurrentHolder {
			return false
		}
		return true

	case GrantSectionHead:
		if recipient.IsSuperuser || recipient.UserID == actor.UserID {
			return false
		}
		return sameSection(actor.SectionID, recipient.SectionID) ||
			recipient.IsSectionHead ||
			recipient.IsReceiveDesk

	case GrantHolder:
		return recipient.IsSectionHead && sameSection(actor.SectionID, recipient.SectionID)
	}

	return false
}

// FilterRecipients returns the admissible subset of roster under grant,
// preserving roster order.
func FilterRecipients(grant Grant, actor Actor, doc DocumentState, roster []Recipient) []Recipient {
	out := make([]Recipient, 0, len(roster))
	for _, r := range roster {
		if RecipientAllowed(grant, actor, doc, r) {
			out = append(out, r)
		}
	}
	return out
}

func sameSection(a, b *string) bool {
	return a != nil && b != nil && *a == *b
}

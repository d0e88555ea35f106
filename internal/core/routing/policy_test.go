package routing_test

import (
	"testing"

	"github.com/paperdesk/doc_tracking_app/internal/apperrors"
	"github.com/paperdesk/doc_tracking_app/internal/core/routing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func heldBy(userID, sectionID string) routing.DocumentState {
	return routing.DocumentState{
		CurrentHolder:    strPtr(userID),
		CurrentSectionID: strPtr(sectionID),
	}
}

func TestDecide_Gates(t *testing.T) {
	tests := []struct {
		name    string
		actor   routing.Actor
		doc     routing.DocumentState
		wantErr error
	}{
		{
			name:    "inactive actor is forbidden even with superuser",
			actor:   routing.Actor{UserID: "u1", IsActive: false, IsSuperuser: true},
			doc:     heldBy("u1", "s1"),
			wantErr: apperrors.ErrForbidden,
		},
		{
			name:    "terminal document freezes custody for superusers",
			actor:   routing.Actor{UserID: "u1", IsActive: true, IsSuperuser: true},
			doc:     routing.DocumentState{CurrentHolder: strPtr("u2"), Terminal: true},
			wantErr: apperrors.ErrInvalidState,
		},
		{
			name:    "terminal document freezes custody for the holder",
			actor:   routing.Actor{UserID: "u2", IsActive: true},
			doc:     routing.DocumentState{CurrentHolder: strPtr("u2"), Terminal: true},
			wantErr: apperrors.ErrInvalidState,
		},
		{
			name:    "non-holder without capability is forbidden",
			actor:   routing.Actor{UserID: "u3", SectionID: strPtr("s1"), IsActive: true},
			doc:     heldBy("u2", "s1"),
			wantErr: apperrors.ErrForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := routing.Decide(tt.actor, tt.doc)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDecide_Grants(t *testing.T) {
	tests := []struct {
		name  string
		actor routing.Actor
		doc   routing.DocumentState
		want  routing.Grant
	}{
		{
			name:  "receive desk user forwards anything",
			actor: routing.Actor{UserID: "rx", IsActive: true, IsReceiveDesk: true},
			doc:   heldBy("u2", "s1"),
			want:  routing.GrantReceiveDesk,
		},
		{
			name:  "superuser forwards anything",
			actor: routing.Actor{UserID: "admin", IsActive: true, IsSuperuser: true},
			doc:   heldBy("u2", "s1"),
			want:  routing.GrantReceiveDesk,
		},
		{
			name:  "section head holding the document",
			actor: routing.Actor{UserID: "head1", SectionID: strPtr("s1"), IsActive: true, IsSectionHead: true},
			doc:   heldBy("head1", "s1"),
			want:  routing.GrantSectionHead,
		},
		{
			name:  "section head NOT holding falls through to forbidden",
			actor: routing.Actor{UserID: "head1", SectionID: strPtr("s1"), IsActive: true, IsSectionHead: true},
			doc:   heldBy("u2", "s1"),
			want:  "",
		},
		{
			name:  "plain holder",
			actor: routing.Actor{UserID: "u2", SectionID: strPtr("s1"), IsActive: true},
			doc:   heldBy("u2", "s1"),
			want:  routing.GrantHolder,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grant, err := routing.Decide(tt.actor, tt.doc)
			if tt.want == "" {
				assert.ErrorIs(t, err, apperrors.ErrForbidden)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, grant)
		})
	}
}

func TestRecipientAllowed_ReceiveDesk(t *testing.T) {
	actor := routing.Actor{UserID: "rx", IsActive: true, IsReceiveDesk: true}
	doc := heldBy("holder", "s1")

	tests := []struct {
		name      string
		recipient routing.Recipient
		want      bool
	}{
		{"any active user in another section", routing.Recipient{UserID: "u9", SectionID: strPtr("s4"), IsActive: true}, true},
		{"current holder excluded", routing.Recipient{UserID: "holder", SectionID: strPtr("s1"), IsActive: true}, false},
		{"superuser excluded", routing.Recipient{UserID: "admin", IsActive: true, IsSuperuser: true}, false},
		{"inactive user excluded", routing.Recipient{UserID: "u9", IsActive: false}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := routing.RecipientAllowed(routing.GrantReceiveDesk, actor, doc, tt.recipient)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRecipientAllowed_SectionHead(t *testing.T) {
	actor := routing.Actor{UserID: "head1", SectionID: strPtr("s1"), IsActive: true, IsSectionHead: true}
	doc := heldBy("head1", "s1")

	tests := []struct {
		name      string
		recipient routing.Recipient
		want      bool
	}{
		{"member of own section", routing.Recipient{UserID: "u2", SectionID: strPtr("s1"), IsActive: true}, true},
		{"self excluded", routing.Recipient{UserID: "head1", SectionID: strPtr("s1"), IsActive: true, IsSectionHead: true}, false},
		{"head of another section", routing.Recipient{UserID: "head2", SectionID: strPtr("s2"), IsActive: true, IsSectionHead: true}, true},
		{"receive desk user in another section", routing.Recipient{UserID: "rx", SectionID: strPtr("s9"), IsActive: true, IsReceiveDesk: true}, true},
		{"plain member of another section", routing.Recipient{UserID: "u7", SectionID: strPtr("s2"), IsActive: true}, false},
		{"superuser excluded", routing.Recipient{UserID: "admin", SectionID: strPtr("s1"), IsActive: true, IsSuperuser: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := routing.RecipientAllowed(routing.GrantSectionHead, actor, doc, tt.recipient)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRecipientAllowed_Holder(t *testing.T) {
	actor := routing.Actor{UserID: "u2", SectionID: strPtr("s1"), IsActive: true}
	doc := heldBy("u2", "s1")

	tests := []struct {
		name      string
		recipient routing.Recipient
		want      bool
	}{
		{"own section head", routing.Recipient{UserID: "head1", SectionID: strPtr("s1"), IsActive: true, IsSectionHead: true}, true},
		{"peer in own section", routing.Recipient{UserID: "u3", SectionID: strPtr("s1"), IsActive: true}, false},
		{"head of another section", routing.Recipient{UserID: "head2", SectionID: strPtr("s2"), IsActive: true, IsSectionHead: true}, false},
		{"inactive section head", routing.Recipient{UserID: "head1", SectionID: strPtr("s1"), IsActive: false, IsSectionHead: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := routing.RecipientAllowed(routing.GrantHolder, actor, doc, tt.recipient)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilterRecipients(t *testing.T) {
	actor := routing.Actor{UserID: "u2", SectionID: strPtr("s1"), IsActive: true}
	doc := heldBy("u2", "s1")
	roster := []routing.Recipient{
		{UserID: "head1", SectionID: strPtr("s1"), IsActive: true, IsSectionHead: true},
		{UserID: "u3", SectionID: strPtr("s1"), IsActive: true},
		{UserID: "head2", SectionID: strPtr("s2"), IsActive: true, IsSectionHead: true},
	}

	got := routing.FilterRecipients(routing.GrantHolder, actor, doc, roster)
	require.Len(t, got, 1)
	assert.Equal(t, "head1", got[0].UserID)
}

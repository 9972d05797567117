package itemsync

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/syncd-project/syncd/internal/domain"
)

type fakeItemRepo struct {
	saved []domain.Item
}

func (f *fakeItemRepo) Save(ctx context.Context, item domain.Item) error {
	f.saved = append(f.saved, item)
	return nil
}

type fakePublisher struct {
	published []struct {
		topic string
		event any
	}
}

func (f *fakePublisher) Publish(ctx context.Context, topicARN string, event any) error {
	f.published = append(f.published, struct {
		topic string
		event any
	}{topicARN, event})
	return nil
}

func strPtr(s string) *string { return &s }
func i64Ptr(i int64) *int64   { return &i }
func uuidPtr(u uuid.UUID) *uuid.UUID { return &u }

func baseHash(itemID, userID uuid.UUID) domain.ItemHash {
	now := time.Now().UTC().UnixMicro()
	return domain.ItemHash{
		ItemID:             itemID,
		Content:            strPtr("ciphertext"),
		ContentType:        "Note",
		EncItemKey:         strPtr("enc-key"),
		AuthHash:           strPtr("auth-hash"),
		ItemsKeyID:         strPtr("items-key"),
		CreatedAtTimestamp: i64Ptr(now),
		UpdatedAtTimestamp: i64Ptr(now),
	}
}

func Test_Apply_Deletion_ClearsPayloadAndDuplicateOf(t *testing.T) {
	itemID := uuid.New()
	userID := uuid.New()
	sessionID := uuid.New().String()
	performingUserID := userID.String()

	existing := domain.Item{ItemID: itemID, UserID: userID}
	hash := baseHash(itemID, userID)
	hash.Deleted = true
	hash.DuplicateOf = uuidPtr(uuid.New())

	repo := &fakeItemRepo{}
	pub := &fakePublisher{}
	u := NewUpdater(repo, pub, "arn:item-revision", "arn:duplicate")

	res := u.Apply(context.Background(), existing, hash, sessionID, performingUserID)
	if !res.IsOk() {
		t.Fatalf("expected success, got error: %s", res.Error())
	}

	item := res.Value()
	if !item.Deleted {
		t.Fatalf("expected deleted=true")
	}
	if item.Content != nil || item.EncItemKey != nil || item.AuthHash != nil || item.ItemsKeyID != nil || item.DuplicateOf != nil {
		t.Fatalf("expected all payload fields nulled on deletion, got %+v", item)
	}
	if len(repo.saved) != 1 {
		t.Fatalf("expected one save, got %d", len(repo.saved))
	}

	foundRevision := false
	for _, p := range pub.published {
		if _, ok := p.event.(domain.ItemRevisionCreationRequested); ok {
			foundRevision = true
		}
	}
	if !foundRevision {
		t.Fatalf("expected ItemRevisionCreationRequested to be published")
	}
}

func Test_Apply_NewSharedVault_CreatesAssociation_IdempotentOnReapply(t *testing.T) {
	itemID := uuid.New()
	userID := uuid.New()
	sessionID := uuid.New().String()
	performingUserID := userID.String()
	vaultID := uuid.New()

	existing := domain.Item{ItemID: itemID, UserID: userID}
	hash := baseHash(itemID, userID)
	hash.SharedVaultID = uuidPtr(vaultID)

	repo := &fakeItemRepo{}
	pub := &fakePublisher{}
	u := NewUpdater(repo, pub, "arn:item-revision", "arn:duplicate")

	res := u.Apply(context.Background(), existing, hash, sessionID, performingUserID)
	if !res.IsOk() {
		t.Fatalf("unexpected error: %s", res.Error())
	}
	item := res.Value()
	if item.SharedVaultAssociation == nil || item.SharedVaultAssociation.SharedVaultID != vaultID {
		t.Fatalf("expected new shared vault association, got %+v", item.SharedVaultAssociation)
	}

	secondHash := baseHash(itemID, userID)
	secondHash.SharedVaultID = uuidPtr(vaultID)
	res2 := u.Apply(context.Background(), item, secondHash, sessionID, performingUserID)
	if !res2.IsOk() {
		t.Fatalf("unexpected error on reapply: %s", res2.Error())
	}
	if res2.Value().SharedVaultAssociation != item.SharedVaultAssociation {
		t.Fatalf("expected association identity preserved across reapply with the same vault")
	}
}

func Test_Apply_UnknownContentType_FailsValidationWithNoSave(t *testing.T) {
	itemID := uuid.New()
	userID := uuid.New()
	existing := domain.Item{ItemID: itemID, UserID: userID}
	hash := baseHash(itemID, userID)
	hash.ContentType = "NotARealType"

	repo := &fakeItemRepo{}
	pub := &fakePublisher{}
	u := NewUpdater(repo, pub, "arn:item-revision", "arn:duplicate")

	res := u.Apply(context.Background(), existing, hash, uuid.New().String(), userID.String())
	if res.IsOk() {
		t.Fatalf("expected failure")
	}
	if len(repo.saved) != 0 || len(pub.published) != 0 {
		t.Fatalf("expected no side effects on validation failure")
	}
}

func Test_Apply_MissingCreationTime_FailsValidation(t *testing.T) {
	itemID := uuid.New()
	userID := uuid.New()
	existing := domain.Item{ItemID: itemID, UserID: userID}
	hash := baseHash(itemID, userID)
	hash.CreatedAtTimestamp = nil
	hash.UpdatedAtTimestamp = nil

	u := NewUpdater(&fakeItemRepo{}, &fakePublisher{}, "arn:item-revision", "arn:duplicate")
	res := u.Apply(context.Background(), existing, hash, uuid.New().String(), userID.String())
	if res.IsOk() {
		t.Fatalf("expected failure when no creation time is present in either form")
	}
}

func Test_Apply_InvalidSessionID_FailsValidation(t *testing.T) {
	itemID := uuid.New()
	userID := uuid.New()
	existing := domain.Item{ItemID: itemID, UserID: userID}
	hash := baseHash(itemID, userID)

	u := NewUpdater(&fakeItemRepo{}, &fakePublisher{}, "arn:item-revision", "arn:duplicate")
	res := u.Apply(context.Background(), existing, hash, "not-a-uuid", userID.String())
	if res.IsOk() {
		t.Fatalf("expected failure for invalid sessionId")
	}
}

func Test_Apply_DuplicateOf_PublishesDuplicateItemSynced(t *testing.T) {
	itemID := uuid.New()
	userID := uuid.New()
	duplicateOf := uuid.New()
	existing := domain.Item{ItemID: itemID, UserID: userID}
	hash := baseHash(itemID, userID)
	hash.DuplicateOf = uuidPtr(duplicateOf)

	pub := &fakePublisher{}
	u := NewUpdater(&fakeItemRepo{}, pub, "arn:item-revision", "arn:duplicate")

	res := u.Apply(context.Background(), existing, hash, uuid.New().String(), userID.String())
	if !res.IsOk() {
		t.Fatalf("unexpected error: %s", res.Error())
	}

	found := false
	for _, p := range pub.published {
		if ev, ok := p.event.(domain.DuplicateItemSynced); ok && ev.DuplicateOfID == duplicateOf {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected DuplicateItemSynced to be published")
	}
}

func Test_Apply_DateStringFallback_ParsesTimestamps(t *testing.T) {
	itemID := uuid.New()
	userID := uuid.New()
	existing := domain.Item{ItemID: itemID, UserID: userID}
	hash := baseHash(itemID, userID)
	hash.CreatedAtTimestamp = nil
	hash.UpdatedAtTimestamp = nil
	hash.CreatedAtDate = strPtr("2026-01-01T00:00:00Z")
	hash.UpdatedAtDate = strPtr("2026-01-02T00:00:00Z")

	u := NewUpdater(&fakeItemRepo{}, &fakePublisher{}, "arn:item-revision", "arn:duplicate")
	res := u.Apply(context.Background(), existing, hash, uuid.New().String(), userID.String())
	if !res.IsOk() {
		t.Fatalf("unexpected error: %s", res.Error())
	}
	if res.Value().Timestamps.CreatedAt >= res.Value().Timestamps.UpdatedAt {
		t.Fatalf("expected createdAt < updatedAt from parsed dates, got %+v", res.Value().Timestamps)
	}
}

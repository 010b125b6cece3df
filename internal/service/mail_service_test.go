package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ceibcn/crm-api/internal/models"
	appErrors "github.com/ceibcn/crm-api/pkg/errors"
	"github.com/ceibcn/crm-api/pkg/mailer"
	"github.com/ceibcn/crm-api/pkg/tokens"
)

type mockMailPersonRepo struct {
	persons map[int64]models.Person
	optOuts []int64
}

func (m *mockMailPersonRepo) EmailsByIDs(ctx context.Context, ids []int64, marketingOnly bool) ([]models.Person, error) {
	var out []models.Person
	for _, id := range ids {
		p, ok := m.persons[id]
		if !ok {
			continue
		}
		if marketingOnly && !p.MarketingOptIn {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (m *mockMailPersonRepo) SetMarketingOptIn(ctx context.Context, id int64, optIn bool) error {
	p, ok := m.persons[id]
	if !ok {
		return sql.ErrNoRows
	}
	p.MarketingOptIn = optIn
	m.persons[id] = p
	if !optIn {
		m.optOuts = append(m.optOuts, id)
	}
	return nil
}

type mockSignatureRepo struct {
	signatures map[int64]models.Signature
	defaultID  int64
}

func (m *mockSignatureRepo) List(ctx context.Context) ([]models.Signature, error) { return nil, nil }

func (m *mockSignatureRepo) FindByID(ctx context.Context, id int64) (*models.Signature, error) {
	if s, ok := m.signatures[id]; ok {
		return &s, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockSignatureRepo) GetDefault(ctx context.Context) (*models.Signature, error) {
	if s, ok := m.signatures[m.defaultID]; ok {
		return &s, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockSignatureRepo) Create(ctx context.Context, s *models.Signature) error  { return nil }
func (m *mockSignatureRepo) Update(ctx context.Context, s *models.Signature) error  { return nil }
func (m *mockSignatureRepo) SetDefault(ctx context.Context, id int64) error         { return nil }
func (m *mockSignatureRepo) Delete(ctx context.Context, id int64) error             { return nil }

type mockMailer struct {
	sent   []mailer.Message
	failTo string
}

func (m *mockMailer) Send(msg mailer.Message) error {
	if m.failTo != "" && msg.To == m.failTo {
		return assert.AnError
	}
	m.sent = append(m.sent, msg)
	return nil
}

func newMailService(persons *mockMailPersonRepo, signatures *mockSignatureRepo, m *mockMailer, history *mockHistoryRepo) *MailService {
	signer := tokens.NewUnsubscribeSigner("test-secret", time.Hour)
	return NewMailService(persons, signatures, history, m, signer, "https://crm.example.com/", nil, nil)
}

func TestMailServiceCampaignSkipsOptedOut(t *testing.T) {
	persons := &mockMailPersonRepo{persons: map[int64]models.Person{
		1: {ID: 1, Email: "a@example.com", MarketingOptIn: true},
		2: {ID: 2, Email: "b@example.com", MarketingOptIn: false},
	}}
	sender := &mockMailer{}
	history := &mockHistoryRepo{}
	svc := newMailService(persons, &mockSignatureRepo{}, sender, history)

	result, err := svc.SendCampaign(context.Background(), CampaignRequest{
		PersonIDs: []int64{1, 2},
		Subject:   "Open day",
		Body:      "<p>Hello</p>",
		Marketing: true,
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, result.Sent)
	assert.Equal(t, []int64{2}, result.Skipped)
	require.Len(t, sender.sent, 1)

	// Marketing mail carries a personalised unsubscribe link.
	assert.Contains(t, sender.sent[0].HTMLBody, "https://crm.example.com/unsubscribe?token=")
	require.Len(t, history.entries, 1)
	assert.Equal(t, models.HistoryActionEmailSent, history.entries[0].Action)
}

func TestMailServiceTransactionalOmitsUnsubscribeLink(t *testing.T) {
	persons := &mockMailPersonRepo{persons: map[int64]models.Person{
		2: {ID: 2, Email: "b@example.com", MarketingOptIn: false},
	}}
	sender := &mockMailer{}
	svc := newMailService(persons, &mockSignatureRepo{}, sender, &mockHistoryRepo{})

	result, err := svc.SendCampaign(context.Background(), CampaignRequest{
		PersonIDs: []int64{2},
		Subject:   "Enrollment confirmation",
		Body:      "<p>Confirmed</p>",
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, result.Sent)
	require.Len(t, sender.sent, 1)
	assert.NotContains(t, sender.sent[0].HTMLBody, "unsubscribe")
}

func TestMailServiceCampaignAppendsSignature(t *testing.T) {
	persons := &mockMailPersonRepo{persons: map[int64]models.Person{
		1: {ID: 1, Email: "a@example.com", MarketingOptIn: true},
	}}
	signatures := &mockSignatureRepo{
		signatures: map[int64]models.Signature{
			9: {ID: 9, HTML: "<p>Admissions Team</p>", IsDefault: true},
		},
		defaultID: 9,
	}
	sender := &mockMailer{}
	svc := newMailService(persons, signatures, sender, &mockHistoryRepo{})

	_, err := svc.SendCampaign(context.Background(), CampaignRequest{
		PersonIDs: []int64{1},
		Subject:   "News",
		Body:      "<p>Hello</p>",
		Marketing: true,
	})
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)
	body := sender.sent[0].HTMLBody
	assert.Contains(t, body, "Admissions Team")
	// Body precedes signature.
	assert.Less(t, strings.Index(body, "Hello"), strings.Index(body, "Admissions Team"))
}

func TestMailServiceUnsubscribeRoundTrip(t *testing.T) {
	persons := &mockMailPersonRepo{persons: map[int64]models.Person{
		5: {ID: 5, Email: "c@example.com", MarketingOptIn: true},
	}}
	history := &mockHistoryRepo{}
	svc := newMailService(persons, &mockSignatureRepo{}, &mockMailer{}, history)

	signer := tokens.NewUnsubscribeSigner("test-secret", time.Hour)
	token, err := signer.Generate(5, tokens.ScopeMarketing)
	require.NoError(t, err)

	personID, err := svc.Unsubscribe(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, int64(5), personID)
	assert.Equal(t, []int64{5}, persons.optOuts)
	require.Len(t, history.entries, 1)
	assert.Equal(t, models.HistoryActionUnsubscribed, history.entries[0].Action)
}

func TestMailServiceUnsubscribeExpiredVsInvalid(t *testing.T) {
	svc := newMailService(&mockMailPersonRepo{persons: map[int64]models.Person{}}, &mockSignatureRepo{}, &mockMailer{}, &mockHistoryRepo{})

	expiredSigner := tokens.NewUnsubscribeSigner("test-secret", -time.Minute)
	expired, err := expiredSigner.Generate(5, tokens.ScopeMarketing)
	require.NoError(t, err)

	_, err = svc.Unsubscribe(context.Background(), expired)
	require.Error(t, err)
	assert.Equal(t, "TOKEN_EXPIRED", appErrors.FromError(err).Code)

	_, err = svc.Unsubscribe(context.Background(), "garbage.token.value")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

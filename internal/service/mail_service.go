package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/ceibcn/crm-api/internal/models"
	appErrors "github.com/ceibcn/crm-api/pkg/errors"
	"github.com/ceibcn/crm-api/pkg/mailer"
	"github.com/ceibcn/crm-api/pkg/tokens"
)

type mailPersonRepository interface {
	EmailsByIDs(ctx context.Context, ids []int64, marketingOnly bool) ([]models.Person, error)
	SetMarketingOptIn(ctx context.Context, id int64, optIn bool) error
}

// CampaignRequest is a bulk mail send. Marketing campaigns are restricted to
// opted-in recipients and carry an unsubscribe link; transactional sends skip
// both behaviors.
type CampaignRequest struct {
	PersonIDs   []int64 `json:"person_ids" validate:"required,min=1,dive,gt=0"`
	Subject     string  `json:"subject" validate:"required,max=200"`
	Body        string  `json:"body" validate:"required"`
	SignatureID int64   `json:"signature_id"`
	Marketing   bool    `json:"marketing"`
	BCC         string  `json:"bcc" validate:"omitempty,email"`
	SenderName  string  `json:"sender_name"`
	SenderMail  string  `json:"sender_email" validate:"omitempty,email"`
}

// CampaignResult reports which recipients were mailed and which were skipped
// because they opted out or have no address.
type CampaignResult struct {
	Sent    []int64 `json:"sent"`
	Skipped []int64 `json:"skipped"`
	Failed  []int64 `json:"failed"`
}

// MailService composes and delivers campaign mail.
type MailService struct {
	persons    mailPersonRepository
	signatures signatureRepository
	history    historyRepository
	mailer     mailer.Mailer
	signer     *tokens.UnsubscribeSigner
	baseURL    string
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewMailService constructs a MailService. baseURL is the public origin used
// to build unsubscribe links.
func NewMailService(persons mailPersonRepository, signatures signatureRepository, history historyRepository, m mailer.Mailer, signer *tokens.UnsubscribeSigner, baseURL string, validate *validator.Validate, logger *zap.Logger) *MailService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &MailService{
		persons:    persons,
		signatures: signatures,
		history:    history,
		mailer:     m,
		signer:     signer,
		baseURL:    strings.TrimRight(baseURL, "/"),
		validator:  validate,
		logger:     logger,
	}
}

// SendCampaign delivers one message per recipient. Requested recipients that
// opted out of marketing are skipped rather than failing the batch.
func (s *MailService) SendCampaign(ctx context.Context, req CampaignRequest) (*CampaignResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid campaign payload")
	}

	signatureHTML, err := s.resolveSignature(ctx, req.SignatureID)
	if err != nil {
		return nil, err
	}

	recipients, err := s.persons.EmailsByIDs(ctx, req.PersonIDs, req.Marketing)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve recipients")
	}

	reachable := make(map[int64]models.Person, len(recipients))
	for _, p := range recipients {
		reachable[p.ID] = p
	}

	result := &CampaignResult{Sent: []int64{}, Skipped: []int64{}, Failed: []int64{}}
	var bcc []string
	if req.BCC != "" {
		bcc = []string{req.BCC}
	}

	for _, id := range req.PersonIDs {
		person, ok := reachable[id]
		if !ok || person.Email == "" {
			result.Skipped = append(result.Skipped, id)
			continue
		}

		body, err := s.composeBody(req.Body, signatureHTML, person.ID, req.Marketing)
		if err != nil {
			return nil, err
		}

		msg := mailer.Message{
			To:         person.Email,
			Subject:    req.Subject,
			HTMLBody:   body,
			SenderMail: req.SenderMail,
			SenderName: req.SenderName,
			BCC:        bcc,
		}
		if err := s.mailer.Send(msg); err != nil {
			s.logger.Warn("campaign delivery failed", zap.Int64("person_id", id), zap.Error(err))
			result.Failed = append(result.Failed, id)
			continue
		}

		result.Sent = append(result.Sent, id)
		if err := s.history.Add(ctx, id, models.HistoryActionEmailSent, req.Subject); err != nil {
			s.logger.Warn("failed to record mail history", zap.Int64("person_id", id), zap.Error(err))
		}
	}

	if len(result.Sent) == 0 && len(result.Failed) > 0 {
		return result, appErrors.Clone(appErrors.ErrInternal, "no campaign message could be delivered")
	}
	return result, nil
}

// Unsubscribe verifies a marketing unsubscribe token and clears the person's
// opt-in flag. Expired and tampered tokens report differently so the public
// page can offer a resend for the former.
func (s *MailService) Unsubscribe(ctx context.Context, token string) (int64, error) {
	personID, err := s.signer.Verify(token, tokens.ScopeMarketing)
	if err != nil {
		if errors.Is(err, tokens.ErrExpired) {
			return 0, appErrors.New("TOKEN_EXPIRED", appErrors.ErrValidation.Status, "unsubscribe link has expired")
		}
		return 0, appErrors.Clone(appErrors.ErrValidation, "invalid unsubscribe link")
	}

	if err := s.persons.SetMarketingOptIn(ctx, personID, false); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record unsubscribe")
	}
	if err := s.history.Add(ctx, personID, models.HistoryActionUnsubscribed, ""); err != nil {
		s.logger.Warn("failed to record unsubscribe history", zap.Int64("person_id", personID), zap.Error(err))
	}

	s.logger.Info("person unsubscribed", zap.Int64("person_id", personID))
	return personID, nil
}

func (s *MailService) resolveSignature(ctx context.Context, signatureID int64) (string, error) {
	if signatureID > 0 {
		signature, err := s.signatures.FindByID(ctx, signatureID)
		if err != nil {
			return "", appErrors.Clone(appErrors.ErrNotFound, "signature not found")
		}
		return signature.HTML, nil
	}

	signature, err := s.signatures.GetDefault(ctx)
	if err != nil {
		// No default configured is fine, the mail goes out unsigned.
		return "", nil
	}
	return signature.HTML, nil
}

func (s *MailService) composeBody(body, signatureHTML string, personID int64, marketing bool) (string, error) {
	var b strings.Builder
	b.WriteString(body)
	if signatureHTML != "" {
		b.WriteString("<br><br>")
		b.WriteString(signatureHTML)
	}
	if marketing {
		token, err := s.signer.Generate(personID, tokens.ScopeMarketing)
		if err != nil {
			return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign unsubscribe link")
		}
		link := fmt.Sprintf("%s/unsubscribe?token=%s", s.baseURL, token)
		b.WriteString(fmt.Sprintf(
			`<p style="font-size:11px;color:#999;">Si no deseas recibir más comunicaciones, puedes <a href="%s">darte de baja</a>.</p>`,
			link))
	}
	return mailer.WrapHTML(b.String()), nil
}

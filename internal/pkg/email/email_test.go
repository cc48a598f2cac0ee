package email

import (
	"errors"
	"mime"
	"net/mail"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMail struct {
	addr string
	from string
	to   []string
	msg  string
}

func newTestService(t *testing.T, cfg config.SMTPConfig, failures int) (*emailServiceImpl, *[]sentMail) {
	t.Helper()
	svc, err := NewEmailService(cfg)
	require.NoError(t, err)

	impl := svc.(*emailServiceImpl)
	var sent []sentMail
	impl.backoff = func(int) time.Duration { return 0 }
	impl.sendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		if failures > 0 {
			failures--
			return errors.New("connection refused")
		}
		sent = append(sent, sentMail{addr: addr, from: from, to: to, msg: string(msg)})
		return nil
	}
	return impl, &sent
}

var decision = DecisionEmail{
	FullName:     "Amina Benali",
	RequestID:    17,
	Nature:       "Ordinaire",
	StartDate:    "2026-03-01",
	EndDate:      "2026-03-05",
	Days:         5,
	Approved:     true,
	ApproverName: "Karim Haddad",
	Organisation: "Air Algérie",
}

func TestSendDecision(t *testing.T) {
	svc, sent := newTestService(t, config.SMTPConfig{
		Host:     "smtp.airalgerie.dz",
		Port:     587,
		From:     "conges@airalgerie.dz",
		FromName: "Conges",
	}, 0)

	require.NoError(t, svc.SendDecision("amina@airalgerie.dz", decision))

	require.Len(t, *sent, 1)
	got := (*sent)[0]
	assert.Equal(t, "smtp.airalgerie.dz:587", got.addr)
	assert.Equal(t, []string{"amina@airalgerie.dz"}, got.to)
	assert.Contains(t, got.msg, "Bonjour Amina Benali")
	assert.Contains(t, got.msg, "par Karim Haddad")
	assert.Contains(t, got.msg, "titre de congé")
}

func TestSendDecisionEncodesHeaders(t *testing.T) {
	svc, sent := newTestService(t, config.SMTPConfig{
		Host:     "smtp.airalgerie.dz",
		Port:     587,
		From:     "conges@airalgerie.dz",
		FromName: "Air Algérie - Gestion des congés",
	}, 0)
	require.NoError(t, svc.SendDecision("amina@airalgerie.dz", decision))
	require.Len(t, *sent, 1)

	raw := (*sent)[0].msg
	headerBlock := raw[:strings.Index(raw, "\r\n\r\n")]
	for _, r := range headerBlock {
		require.Less(t, r, rune(128), "header block must be 7-bit: %q", headerBlock)
	}

	msg, err := mail.ReadMessage(strings.NewReader(raw))
	require.NoError(t, err)

	subject, err := new(mime.WordDecoder).DecodeHeader(msg.Header.Get("Subject"))
	require.NoError(t, err)
	assert.Equal(t, "Demande de congé n°17 acceptée", subject)

	from, err := msg.Header.AddressList("From")
	require.NoError(t, err)
	require.Len(t, from, 1)
	assert.Equal(t, "Air Algérie - Gestion des congés", from[0].Name)
	assert.Equal(t, "conges@airalgerie.dz", from[0].Address)
}

func TestSendDecisionRejected(t *testing.T) {
	svc, sent := newTestService(t, config.SMTPConfig{Host: "smtp.airalgerie.dz", Port: 25}, 0)

	rejected := decision
	rejected.Approved = false
	require.NoError(t, svc.SendDecision("amina@airalgerie.dz", rejected))

	require.Len(t, *sent, 1)
	assert.Contains(t, (*sent)[0].msg, "refusée")
	assert.False(t, strings.Contains((*sent)[0].msg, "titre de congé"))
}

func TestSendDecisionSkippedWithoutHost(t *testing.T) {
	svc, sent := newTestService(t, config.SMTPConfig{}, 0)
	assert.False(t, svc.Enabled())

	require.NoError(t, svc.SendDecision("amina@airalgerie.dz", decision))
	assert.Empty(t, *sent)
}

func TestSendDecisionRetries(t *testing.T) {
	svc, sent := newTestService(t, config.SMTPConfig{Host: "smtp.airalgerie.dz", Port: 25}, 2)
	require.NoError(t, svc.SendDecision("amina@airalgerie.dz", decision))
	assert.Len(t, *sent, 1)

	svc, sent = newTestService(t, config.SMTPConfig{Host: "smtp.airalgerie.dz", Port: 25}, maxRetries)
	err := svc.SendDecision("amina@airalgerie.dz", decision)
	assert.ErrorContains(t, err, "after 3 attempts")
	assert.Empty(t, *sent)
}

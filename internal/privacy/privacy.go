// Package privacy holds the session identity, PII hashing, consent notice and
// deletion helpers shared by the conversation and audit layers.
package privacy

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SessionIDLength is the number of hex characters in a session id.
const SessionIDLength = 16

// PIIKeys are the audit data keys whose values are replaced by a hash.
var PIIKeys = []string{"name", "email", "phone"}

// NewSessionID returns an opaque 16-character hex token derived from the
// current time and a random UUID.
func NewSessionID() string {
	seed := strconv.FormatInt(time.Now().UnixNano(), 10) + uuid.NewString()
	sum := sha256.Sum256([]byte(seed))
	return hex.EncodeToString(sum[:])[:SessionIDLength]
}

// HashForLog returns the SHA-256 hex digest of value. It is one-way and is
// applied to every PII field before it reaches a log or audit record.
func HashForLog(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}

// IsPIIKey reports whether an audit data key carries raw PII.
func IsPIIKey(key string) bool {
	for _, k := range PIIKeys {
		if k == key {
			return true
		}
	}
	return false
}

// RedactPII copies data, replacing each PII key with "<key>_hash" holding the
// hashed value. The input map is not modified.
func RedactPII(data map[string]any) map[string]any {
	safe := make(map[string]any, len(data))
	for key, value := range data {
		if IsPIIKey(key) {
			safe[key+"_hash"] = HashForLog(fmt.Sprint(value))
			continue
		}
		safe[key] = value
	}
	return safe
}

// NoticeOptions parameterise the privacy notice
type NoticeOptions struct {
	Company       string
	Contact       string
	RetentionDays int
}

// DefaultNoticeOptions returns the TalentScout defaults
func DefaultNoticeOptions() NoticeOptions {
	return NoticeOptions{
		Company:       "TalentScout",
		Contact:       "privacy@talentscout.com",
		RetentionDays: 30,
	}
}

// PrivacyNotice returns the consent text shown before any data is collected.
func PrivacyNotice(opts NoticeOptions) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**Privacy Notice for %s AI Hiring Assistant**\n\n", opts.Company)
	b.WriteString("By using this service, you acknowledge that:\n\n")
	b.WriteString("• **Data Collection**: We collect your name, email, phone number, experience level, and technology skills for recruitment purposes only.\n\n")
	b.WriteString("• **Data Usage**: Your information will be used solely to assess your technical qualifications and match you with relevant opportunities.\n\n")
	b.WriteString("• **Data Security**: All data is encrypted and securely stored. Sensitive information is hashed for logging purposes.\n\n")
	fmt.Fprintf(&b, "• **Data Retention**: Your data will be retained for %d days maximum, after which it will be automatically deleted.\n\n", opts.RetentionDays)
	b.WriteString("• **Your Rights**: You can request data deletion at any time by typing 'delete my data' during the conversation.\n\n")
	b.WriteString("• **No Third-Party Sharing**: Your information will not be shared with third parties without explicit consent.\n\n")
	fmt.Fprintf(&b, "• **Contact**: For privacy concerns, contact us at %s\n\n", opts.Contact)
	b.WriteString("Do you consent to the collection and processing of your data as described above?")
	return b.String()
}

// DeletionAcknowledgment is returned to the candidate after a deletion request.
func DeletionAcknowledgment(company string) string {
	return "✅ Your data has been successfully deleted from our systems.\n\n" +
		"Thank you for using " + company + ". You can close this window now."
}

// InteractionDataDeletion is the audit interaction type for deletion requests.
const InteractionDataDeletion = "data_deletion_request"

// Auditor records interaction events. *audit.Logger satisfies it.
type Auditor interface {
	Log(ctx context.Context, sessionID, interactionType string, data map[string]any)
}

// HandleDeletionRequest records the deletion event. The caller must end the
// session without further stage processing.
func HandleDeletionRequest(ctx context.Context, auditor Auditor, sessionID string) {
	if auditor == nil {
		return
	}
	auditor.Log(ctx, sessionID, InteractionDataDeletion, map[string]any{"status": "completed"})
}

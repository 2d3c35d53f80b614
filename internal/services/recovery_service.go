package services

import (
	"fmt"
	"log"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"pastelrecipes/internal/models"
	"pastelrecipes/internal/repositories"
	"pastelrecipes/internal/utils"
)

// Recovery settings
const (
	recoveryCodeTTL     = 10 * time.Minute
	maxRecoveryAttempts = 3
)

// RecoveryKind labels the outcome of a recovery operation. Callers branch on
// Success; the kind exists so the UI can distinguish failure causes without
// parsing messages.
type RecoveryKind string

const (
	RecoveryOK                RecoveryKind = "ok"
	RecoveryNoPhoneRegistered RecoveryKind = "no_phone_registered"
	RecoveryDeliveryFailed    RecoveryKind = "delivery_failed"
	RecoveryNoActiveRecord    RecoveryKind = "no_active_record"
	RecoveryExpired           RecoveryKind = "expired"
	RecoveryAttemptsExhausted RecoveryKind = "attempts_exhausted"
	RecoveryCodeMismatch      RecoveryKind = "code_mismatch"
	RecoveryInternalError     RecoveryKind = "internal_error"
)

// RecoveryResult is the only thing a recovery operation returns. Store and
// transport errors are absorbed here; nothing is thrown across this boundary,
// and an ambiguous error always reads as "try again later", never as success.
type RecoveryResult struct {
	Success     bool         `json:"success"`
	Kind        RecoveryKind `json:"kind"`
	Message     string       `json:"message"`
	MaskedPhone string       `json:"masked_phone,omitempty"`
}

// RecoveryService owns the phone-based account-recovery flow: it generates
// codes, hands them to the delivery adapter, and enforces expiry and the
// attempt cap against the record store.
type RecoveryService struct {
	codes       repositories.RecoveryCodeRepository
	users       repositories.UserRepository
	sender      utils.Sender
	countryCode string
}

func NewRecoveryService(
	codes repositories.RecoveryCodeRepository,
	users repositories.UserRepository,
	sender utils.Sender,
	defaultCountryCode string,
) *RecoveryService {
	return &RecoveryService{
		codes:       codes,
		users:       users,
		sender:      sender,
		countryCode: defaultCountryCode,
	}
}

// Seeded once at startup; re-seeding per call would hand out identical codes
// to requests landing in the same nanosecond.
var codeRand = rand.New(rand.NewSource(time.Now().UnixNano()))

// generateCode returns a 6-digit code uniform over [100000, 999999]. No
// uniqueness across calls; records are keyed per account, so collisions
// between accounts don't matter.
func (s *RecoveryService) generateCode() string {
	return strconv.Itoa(100000 + codeRand.Intn(900000))
}

// GetUserPhone returns the registered phone for an account, or false when the
// account is unknown or has none. Lookup errors also read as "no phone"; the
// caller falls back to email-based recovery.
func (s *RecoveryService) GetUserPhone(email string) (string, bool) {
	user, err := s.users.GetByEmail(email)
	if err != nil {
		log.Printf("[recovery] phone lookup failed for %q: %v", email, err)
		return "", false
	}
	if user == nil || strings.TrimSpace(user.Phone) == "" {
		return "", false
	}
	return user.Phone, true
}

// MaskedUserPhone returns the account's phone in display-safe form. The raw
// stored value is normalized first; the mask only recognizes the canonical
// +CC format, so masking the raw string would hand it back unredacted.
func (s *RecoveryService) MaskedUserPhone(email string) (string, bool) {
	phone, ok := s.GetUserPhone(email)
	if !ok {
		return "", false
	}
	return utils.MaskPhone(utils.NormalizePhone(phone, s.countryCode)), true
}

func (s *RecoveryService) SendSMSCode(email string) RecoveryResult {
	return s.sendCode(email, models.RecoveryMethodSMS)
}

func (s *RecoveryService) SendVoiceCode(email string) RecoveryResult {
	return s.sendCode(email, models.RecoveryMethodVoice)
}

func (s *RecoveryService) sendCode(email, method string) RecoveryResult {
	phone, ok := s.GetUserPhone(email)
	if !ok {
		return RecoveryResult{
			Kind:    RecoveryNoPhoneRegistered,
			Message: "There is no phone number registered for this account.",
		}
	}

	code := s.generateCode()
	formatted := utils.NormalizePhone(phone, s.countryCode)

	var sendErr error
	switch method {
	case models.RecoveryMethodVoice:
		// Read each digit individually, twice, so a listener can catch the
		// code by ear.
		digits := strings.Join(strings.Split(code, ""), ", ")
		spoken := fmt.Sprintf(
			"Hello. Your Pastel Recipes recovery code is: %s. I repeat: %s. This code is valid for 10 minutes.",
			digits, digits,
		)
		sendErr = s.sender.SendVoice(formatted, spoken)
	default:
		text := fmt.Sprintf("Your Pastel Recipes recovery code is: %s. Valid for 10 minutes.", code)
		sendErr = s.sender.SendText(formatted, text)
	}
	if sendErr != nil {
		// No record is written on delivery failure.
		log.Printf("[recovery][%s] delivery failed for %q: %v", method, email, sendErr)
		if method == models.RecoveryMethodVoice {
			return RecoveryResult{Kind: RecoveryDeliveryFailed, Message: "Error placing the call. Try again later."}
		}
		return RecoveryResult{Kind: RecoveryDeliveryFailed, Message: "Error sending SMS. Try again later."}
	}

	now := time.Now()
	rec := &models.RecoveryCode{
		AccountKey: repositories.AccountKey(email),
		Code:       code,
		Method:     method,
		Phone:      formatted,
		CreatedAt:  now,
		ExpiresAt:  now.Add(recoveryCodeTTL),
		Attempts:   0,
	}
	// Unconditional overwrite: a new request invalidates any prior code for
	// this account.
	if err := s.codes.Put(rec); err != nil {
		log.Printf("[recovery][%s] store write failed for %q: %v", method, email, err)
		return RecoveryResult{Kind: RecoveryInternalError, Message: "Internal error. Try again later."}
	}

	log.Printf("[recovery][%s] code sent for %q", method, email)
	result := RecoveryResult{
		Success:     true,
		Kind:        RecoveryOK,
		MaskedPhone: utils.MaskPhone(formatted),
	}
	if method == models.RecoveryMethodVoice {
		result.Message = "We will call you in a few seconds with your code."
	} else {
		result.Message = "Recovery code sent by SMS."
	}
	return result
}

// VerifyCode checks a submitted code against the account's pending record.
// Expiry and the attempt cap are terminal: the record is deleted and the user
// has to request a new code.
func (s *RecoveryService) VerifyCode(email, inputCode string) RecoveryResult {
	key := repositories.AccountKey(email)

	rec, err := s.codes.Get(key)
	if err != nil {
		log.Printf("[recovery][verify] store read failed for %q: %v", email, err)
		return RecoveryResult{Kind: RecoveryInternalError, Message: "Error verifying code. Try again later."}
	}
	if rec == nil {
		return RecoveryResult{Kind: RecoveryNoActiveRecord, Message: "There is no active recovery code for this account."}
	}

	now := time.Now()
	if now.After(rec.ExpiresAt) {
		if err := s.codes.Delete(key); err != nil {
			log.Printf("[recovery][verify] expired-record delete failed for %q: %v", email, err)
		}
		return RecoveryResult{Kind: RecoveryExpired, Message: "The code has expired. Request a new one."}
	}

	if rec.Attempts >= maxRecoveryAttempts {
		if err := s.codes.Delete(key); err != nil {
			log.Printf("[recovery][verify] exhausted-record delete failed for %q: %v", email, err)
		}
		return RecoveryResult{Kind: RecoveryAttemptsExhausted, Message: "Too many failed attempts. Request a new code."}
	}

	if rec.Code == inputCode {
		if err := s.codes.Delete(key); err != nil {
			log.Printf("[recovery][verify] record delete failed for %q: %v", email, err)
			return RecoveryResult{Kind: RecoveryInternalError, Message: "Error verifying code. Try again later."}
		}
		log.Printf("[recovery][verify] OK for %q", email)
		return RecoveryResult{Success: true, Kind: RecoveryOK, Message: "Code verified successfully."}
	}

	// The message counts down from 2 while the guard above triggers at 3, so
	// the last mismatch reports 0 attempts left even though the record is only
	// removed on the next call. Kept as-is to match the shipped behavior.
	remaining := maxRecoveryAttempts - 1 - rec.Attempts
	rec.Attempts++
	if err := s.codes.Put(rec); err != nil {
		log.Printf("[recovery][verify] attempt update failed for %q: %v", email, err)
		return RecoveryResult{Kind: RecoveryInternalError, Message: "Error verifying code. Try again later."}
	}
	return RecoveryResult{
		Kind:    RecoveryCodeMismatch,
		Message: fmt.Sprintf("Incorrect code. You have %d attempts left.", remaining),
	}
}

// CleanExpiredCodes removes every expired record across all accounts. Meant to
// run periodically out-of-band; the verify path only ever deletes the record it
// is checking.
func (s *RecoveryService) CleanExpiredCodes() {
	records, err := s.codes.ListAll()
	if err != nil {
		log.Printf("[recovery][sweep] list failed: %v", err)
		return
	}
	now := time.Now()
	removed := 0
	for _, rec := range records {
		if now.After(rec.ExpiresAt) {
			if err := s.codes.Delete(rec.AccountKey); err != nil {
				log.Printf("[recovery][sweep] delete failed for key=%s: %v", rec.AccountKey, err)
				continue
			}
			removed++
		}
	}
	if removed > 0 {
		log.Printf("[recovery][sweep] removed %d expired record(s)", removed)
	}
}

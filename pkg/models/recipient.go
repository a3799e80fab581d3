package models

import "strings"

// PhoneRecipientPrefix marks a phone number inside the persisted recipient
// list; anything without it is an email address.
const PhoneRecipientPrefix = "phone:"

type RecipientKind int

const (
	RecipientEmail RecipientKind = iota
	RecipientPhone
)

func (k RecipientKind) String() string {
	if k == RecipientPhone {
		return "phone"
	}
	return "email"
}

type Recipient struct {
	Kind  RecipientKind
	Value string
}

func EmailRecipient(address string) Recipient {
	return Recipient{Kind: RecipientEmail, Value: strings.TrimSpace(address)}
}

func PhoneRecipient(number string) Recipient {
	return Recipient{Kind: RecipientPhone, Value: strings.TrimSpace(number)}
}

func ParseRecipient(encoded string) Recipient {
	encoded = strings.TrimSpace(encoded)
	if number, ok := strings.CutPrefix(encoded, PhoneRecipientPrefix); ok {
		return PhoneRecipient(number)
	}
	return EmailRecipient(encoded)
}

// String returns the persisted form.
func (r Recipient) String() string {
	if r.Kind == RecipientPhone {
		return PhoneRecipientPrefix + r.Value
	}
	return r.Value
}

func ParseRecipients(encoded []string) []Recipient {
	recipients := make([]Recipient, 0, len(encoded))
	for _, e := range encoded {
		r := ParseRecipient(e)
		if r.Value == "" {
			continue
		}
		recipients = append(recipients, r)
	}
	return recipients
}

func EncodeRecipients(recipients []Recipient) []string {
	encoded := make([]string, 0, len(recipients))
	for _, r := range recipients {
		if r.Value == "" {
			continue
		}
		encoded = append(encoded, r.String())
	}
	return encoded
}

func PartitionRecipients(recipients []Recipient) (emails []string, phones []string) {
	emails = []string{}
	phones = []string{}
	for _, r := range recipients {
		switch r.Kind {
		case RecipientPhone:
			phones = append(phones, r.Value)
		default:
			emails = append(emails, r.Value)
		}
	}
	return emails, phones
}

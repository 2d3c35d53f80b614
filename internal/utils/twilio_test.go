package utils

import "testing"

func TestSimulatedSenderRecords(t *testing.T) {
	s := NewSimulatedSender()

	if err := s.SendText("+525551234567", "code 123456"); err != nil {
		t.Fatalf("SendText: %v", err)
	}
	if err := s.SendVoice("+525551234567", "your code is 1, 2, 3"); err != nil {
		t.Fatalf("SendVoice: %v", err)
	}

	if len(s.Sent) != 2 {
		t.Fatalf("recorded %d messages, want 2", len(s.Sent))
	}
	if s.Sent[0].Channel != "sms" || s.Sent[0].Body != "code 123456" {
		t.Errorf("first message = %+v", s.Sent[0])
	}
	if s.Sent[1].Channel != "voice" || s.Sent[1].To != "+525551234567" {
		t.Errorf("second message = %+v", s.Sent[1])
	}
}

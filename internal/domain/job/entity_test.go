package job

import "testing"

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusOpen, StatusAssigned, true},
		{StatusOpen, StatusCancelled, true},
		{StatusOpen, StatusCompleted, false},
		{StatusAssigned, StatusInProgress, true},
		{StatusAssigned, StatusOpen, true},
		{StatusInProgress, StatusOpen, false},
		{StatusCompleted, StatusOpen, false},
		{StatusCancelled, StatusOpen, false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransition(tc.to); got != tc.want {
			t.Errorf("%s -> %s = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestCompletionBothRated(t *testing.T) {
	r := 4.0
	if (Completion{BusinessRating: &r}).BothRated() {
		t.Fatalf("one rating is not both")
	}
	if !(Completion{BusinessRating: &r, WorkerRating: &r}).BothRated() {
		t.Fatalf("expected both rated")
	}
}

func TestProofOfWorkValid(t *testing.T) {
	cases := []struct {
		p    ProofOfWork
		want bool
	}{
		{ProofOfWork{Kind: ProofImage, URL: "https://cdn.example.com/sink.jpg"}, true},
		{ProofOfWork{Kind: ProofDocument, URL: "https://example.com/invoice.pdf", Description: "invoice"}, true},
		{ProofOfWork{Kind: "audio", URL: "https://example.com/a.mp3"}, false},
		{ProofOfWork{Kind: ProofVideo, URL: "/relative/clip.mp4"}, false},
		{ProofOfWork{Kind: ProofVideo, URL: ""}, false},
	}
	for _, tc := range cases {
		if got := tc.p.Valid(); got != tc.want {
			t.Errorf("%+v Valid() = %v, want %v", tc.p, got, tc.want)
		}
	}
}

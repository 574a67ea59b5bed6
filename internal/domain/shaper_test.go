package domain

import "testing"

func TestPlanVolumeFor(t *testing.T) {
	tests := []struct {
		time string
		want PlanVolume
	}{
		{Time5To10, VolumeUltraLight},
		{Time15To20, VolumeLightModerate},
		{Time30, VolumeComplete},
		{TimeDepends, VolumeLightModerate},
		{"", VolumeLightModerate},
		{"2 horas", VolumeLightModerate},
	}

	for _, tt := range tests {
		if got := PlanVolumeFor(tt.time); got != tt.want {
			t.Errorf("PlanVolumeFor(%q) = %s, want %s", tt.time, got, tt.want)
		}
	}
}

func TestObjectiveDirection(t *testing.T) {
	if got := ObjectiveDirection(IntentionMind); got != "Meditação + journaling + práticas de presença" {
		t.Errorf("Unexpected direction for mind: %s", got)
	}
	if got := ObjectiveDirection("outra coisa"); got != defaultObjectiveDirection {
		t.Errorf("Expected default direction, got %s", got)
	}
}

func TestRhythmPlanFor(t *testing.T) {
	rush := RhythmPlanFor(RhythmRush)
	if rush.Body != "Treinos de 5-10 min (HIIT rápido ou alongamento)" {
		t.Errorf("Unexpected rush body plan: %s", rush.Body)
	}
	if got := RhythmPlanFor(""); got != defaultRhythmPlan {
		t.Errorf("Expected default rhythm plan, got %+v", got)
	}
}

func TestPlanVolumeMessage(t *testing.T) {
	if PlanVolumeMessage(VolumeComplete).Emoji != "🚀" {
		t.Error("Expected rocket for completo")
	}
	if PlanVolumeMessage("x") != PlanVolumeMessage(VolumeLightModerate) {
		t.Error("Expected unknown volume to fall back to leve/moderado")
	}
}

func TestPersonalize(t *testing.T) {
	p := Personalize(QuizAnswers{
		Intention: IntentionHabits,
		Rhythm:    RhythmReorganize,
		Movement:  MovementSometimes,
		Time:      Time30,
	})

	if p.PlanVolume != VolumeComplete {
		t.Errorf("Expected completo, got %s", p.PlanVolume)
	}
	if p.ObjectiveDirection != ObjectiveDirection(IntentionHabits) {
		t.Errorf("Unexpected direction %s", p.ObjectiveDirection)
	}
	if p.RhythmPlan != RhythmPlanFor(RhythmReorganize) {
		t.Errorf("Unexpected rhythm plan %+v", p.RhythmPlan)
	}
	if !p.Profile.Valid() {
		t.Errorf("Expected a valid profile, got %s", p.Profile)
	}
}

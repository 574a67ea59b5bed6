package domain

import "testing"

func TestPlan_Personalize(t *testing.T) {
	p := Personalize(QuizAnswers{Time: Time5To10, Rhythm: RhythmRush})
	pl := Plan{PlanID: "plan_1", PlanVolume: VolumeComplete}.Personalize(p)

	if pl.PlanVolume != VolumeUltraLight {
		t.Errorf("Expected local volume to win, got %s", pl.PlanVolume)
	}
	if pl.RhythmPlan == nil || pl.RhythmPlan.Mind != RhythmPlanFor(RhythmRush).Mind {
		t.Errorf("Unexpected rhythm plan %+v", pl.RhythmPlan)
	}
}

func TestPlan_MarkTask(t *testing.T) {
	pl := Plan{
		Week1:     []PlanActivity{{TaskID: "task_1"}, {TaskID: "task_2"}},
		Nutrition: []NutritionItem{{ID: "nutrition_1"}},
		FirstTask: MicroTask{ID: "first_task_water"},
	}

	tests := []struct {
		taskID string
		want   bool
	}{
		{"task_2", true},
		{"nutrition_1", true},
		{"first_task_water", true},
		{"task_9", false},
	}
	for _, tt := range tests {
		if got := pl.MarkTask(tt.taskID); got != tt.want {
			t.Errorf("MarkTask(%s) = %v, want %v", tt.taskID, got, tt.want)
		}
	}
	if !pl.Week1[1].Completed || pl.Week1[0].Completed {
		t.Errorf("Unexpected week state %+v", pl.Week1)
	}
	if !pl.Nutrition[0].Completed {
		t.Error("Expected nutrition item completed")
	}
}

package server_test

import (
	"testing"

	. "github.com/cdrpl/missions/internal/server"
)

func TestLevelWithRemain(t *testing.T) {
	tests := []struct {
		exp    int64
		level  int
		remain int64
	}{
		{0, 1, 10},
		{9, 1, 1},
		{10, 2, 18},
		{27, 2, 1},
		{28, 3, 24},
		{7623, 84, 76},
		{8396, 90, 142},
	}

	for _, test := range tests {
		level, remain := LevelWithRemain(test.exp)

		if level != test.level {
			t.Errorf("exp %v: expect level %v, received: %v", test.exp, test.level, level)
		}

		if remain == nil {
			t.Errorf("exp %v: expect remain %v, received: nil", test.exp, test.remain)
		} else if *remain != test.remain {
			t.Errorf("exp %v: expect remain %v, received: %v", test.exp, test.remain, *remain)
		}
	}
}

func TestLevelWithRemainMax(t *testing.T) {
	for _, exp := range []int64{9900, 10000, 1 << 40} {
		level, remain := LevelWithRemain(exp)

		if level != MAX_LEVEL {
			t.Errorf("exp %v: expect level %v, received: %v", exp, MAX_LEVEL, level)
		}

		if remain != nil {
			t.Errorf("exp %v: expect nil remain, received: %v", exp, *remain)
		}
	}
}

func TestToLevel(t *testing.T) {
	level := ToLevel(10)

	if level.Level != 2 || level.ExperiencePoints != 10 {
		t.Errorf("expect level 2 with 10 exp, received: %+v", level)
	}

	if level.Remaining == nil || *level.Remaining != 18 {
		t.Errorf("expect 18 remaining, received: %v", level.Remaining)
	}
}

package validate

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBirthDate(t *testing.T) {
	now := time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)
	dob := func(years, days int) string {
		return now.AddDate(-years, 0, days).Format("02.01.2006")
	}

	t.Run("every age in range is accepted", func(t *testing.T) {
		for age := MinAge; age <= MaxAge; age++ {
			assert.True(t, BirthDate(dob(age, 0), now), "age %d", age)
		}
	})

	t.Run("ages just outside range are rejected", func(t *testing.T) {
		assert.False(t, BirthDate(dob(17, 0), now))
		assert.False(t, BirthDate(dob(66, 0), now))
	})

	t.Run("birthday not yet reached this year counts one year less", func(t *testing.T) {
		// Turns 18 tomorrow.
		assert.False(t, BirthDate(dob(18, 1), now))
		// Turns 66 tomorrow, still 65 today.
		assert.True(t, BirthDate(dob(66, 1), now))
	})

	t.Run("leap day birthday", func(t *testing.T) {
		born := "29.02.2000"
		assert.False(t, BirthDate(born, time.Date(2018, 2, 28, 12, 0, 0, 0, time.UTC)))
		assert.True(t, BirthDate(born, time.Date(2018, 3, 1, 12, 0, 0, 0, time.UTC)))
	})

	t.Run("unpadded day and month parse", func(t *testing.T) {
		assert.True(t, BirthDate("1.2.1990", now))
	})

	t.Run("malformed input is rejected", func(t *testing.T) {
		for _, text := range []string{"", "1990-01-01", "32.01.1990", "01.13.1990", "01.01.90", "завтра"} {
			assert.False(t, BirthDate(text, now), text)
		}
	})
}

func TestName(t *testing.T) {
	t.Run("accepts cyrillic names", func(t *testing.T) {
		assert.True(t, Name("Иванов"))
		assert.True(t, Name("Анна-Мария"))
		assert.True(t, Name("Ёлкин"))
		assert.True(t, Name(strings.Repeat("Я", 50)))
	})

	t.Run("rejects everything else", func(t *testing.T) {
		assert.False(t, Name("Ivan"))
		assert.False(t, Name("А"))
		assert.False(t, Name(""))
		assert.False(t, Name("Иван2"))
		assert.False(t, Name(strings.Repeat("Я", 51)))
	})
}

func TestPhone(t *testing.T) {
	cases := []struct {
		in   string
		ok   bool
		want string
	}{
		{"89991234567", true, "+79991234567"},
		{"9991234567", true, "+79991234567"},
		{"+12025550123", true, "+12025550123"},
		{"+7 (999) 123-45-67", true, "+79991234567"},
		{"79991234567", true, "+79991234567"},
		{"123", false, ""},
		{"1234567890123456", false, ""},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			ok, got := Phone(tc.in)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestMilitarySpec(t *testing.T) {
	t.Run("codes are sorted and profession trimmed", func(t *testing.T) {
		ok, got := MilitarySpec("837, 166; Плотник, Маляр")
		assert.True(t, ok)
		assert.Equal(t, "166, 837; Плотник, Маляр", got)
	})

	t.Run("none literal is case insensitive", func(t *testing.T) {
		for _, in := range []string{"нет", "Нет", "НЕТ", "  нет "} {
			ok, got := MilitarySpec(in)
			assert.True(t, ok, in)
			assert.Equal(t, NoSpec, got)
		}
	})

	t.Run("non digit characters are stripped from codes", func(t *testing.T) {
		ok, got := MilitarySpec("ВУС-461а,,837 ;  Крановщик ")
		assert.True(t, ok)
		assert.Equal(t, "461, 837; Крановщик", got)
	})

	t.Run("structural errors are rejected", func(t *testing.T) {
		for _, in := range []string{
			"83;Плотник",
			"12345; Плотник",
			"837",
			"837; Плотник; Маляр",
			"837;   ",
			"абв; Плотник",
			"",
		} {
			ok, got := MilitarySpec(in)
			assert.False(t, ok, in)
			assert.Empty(t, got, in)
		}
	})
}

// Package dice - броски кубов по нотации "NdM+K" на детерминированном источнике.
// Все броски энкаунтера идут через один *rand.Rand, засеянный сидом, поэтому
// реплей с тем же сидом повторяет те же значения.
package dice

import (
	"fmt"
	"math/rand"
	"sort"
	"strconv"
	"strings"
)

// RollResult - результат броска
type RollResult struct {
	Total      int    // Итог
	Rolls      []int  // Отдельные кубы
	Expression string // Исходное выражение
	Breakdown  string // "2d6[3,5] + 1"
}

// Roller бросает кубы на переданном источнике случайности
type Roller struct {
	rng *rand.Rand
}

func NewRoller(rng *rand.Rand) *Roller {
	return &Roller{rng: rng}
}

// Roll вычисляет выражение из слагаемых через + и -.
// Слагаемое: константа ("5"), кубы ("2d6", "d20") или кубы с keep-highest ("4d6k3").
func (r *Roller) Roll(expression string) (*RollResult, error) {
	expr := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(expression)), " ", "")
	if expr == "" {
		return nil, fmt.Errorf("empty expression")
	}

	result := &RollResult{Expression: expression}
	var parts []string

	sign := 1
	start := 0
	for i := 0; i <= len(expr); i++ {
		if i < len(expr) && expr[i] != '+' && expr[i] != '-' {
			continue
		}
		term := expr[start:i]
		if term == "" {
			if i == 0 && i < len(expr) {
				// ведущий знак: "-1d4"
				if expr[i] == '-' {
					sign = -1
				}
				start = i + 1
				continue
			}
			return nil, fmt.Errorf("malformed expression %q", expression)
		}

		value, rolls, breakdown, err := r.term(term)
		if err != nil {
			return nil, fmt.Errorf("roll %q: %w", expression, err)
		}
		result.Total += sign * value
		result.Rolls = append(result.Rolls, rolls...)
		if len(parts) > 0 || sign < 0 {
			if sign < 0 {
				parts = append(parts, "-")
			} else {
				parts = append(parts, "+")
			}
		}
		parts = append(parts, breakdown)

		if i < len(expr) {
			if expr[i] == '-' {
				sign = -1
			} else {
				sign = 1
			}
		}
		start = i + 1
	}

	result.Breakdown = strings.Join(parts, " ")
	return result, nil
}

func (r *Roller) term(term string) (int, []int, string, error) {
	idx := strings.IndexByte(term, 'd')
	if idx < 0 {
		v, err := strconv.Atoi(term)
		if err != nil {
			return 0, nil, "", fmt.Errorf("invalid constant %q", term)
		}
		return v, nil, term, nil
	}

	count := 1
	if idx > 0 {
		c, err := strconv.Atoi(term[:idx])
		if err != nil || c <= 0 {
			return 0, nil, "", fmt.Errorf("invalid dice count in %q", term)
		}
		count = c
	}

	rest := term[idx+1:]
	keep := count
	if k := strings.IndexByte(rest, 'k'); k >= 0 {
		kv, err := strconv.Atoi(rest[k+1:])
		if err != nil || kv <= 0 || kv > count {
			return 0, nil, "", fmt.Errorf("invalid keep in %q", term)
		}
		keep = kv
		rest = rest[:k]
	}

	sides, err := strconv.Atoi(rest)
	if err != nil || sides <= 0 {
		return 0, nil, "", fmt.Errorf("invalid dice sides in %q", term)
	}
	if count > 1000 {
		return 0, nil, "", fmt.Errorf("too many dice in %q", term)
	}

	rolls := make([]int, count)
	for i := range rolls {
		rolls[i] = r.rng.Intn(sides) + 1
	}

	total := 0
	if keep == count {
		for _, v := range rolls {
			total += v
		}
	} else {
		total = sumHighest(rolls, keep)
	}

	strs := make([]string, len(rolls))
	for i, v := range rolls {
		strs[i] = strconv.Itoa(v)
	}
	return total, rolls, fmt.Sprintf("%s[%s]", term, strings.Join(strs, ",")), nil
}

func sumHighest(rolls []int, keep int) int {
	sorted := make([]int, len(rolls))
	copy(sorted, rolls)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))
	total := 0
	for _, v := range sorted[:keep] {
		total += v
	}
	return total
}

// Validate проверяет выражение без броска
func Validate(expression string) error {
	_, err := NewRoller(rand.New(rand.NewSource(0))).Roll(expression)
	return err
}

// SkillCheck - d20 + модификатор против сложности (DC)
type SkillCheck struct {
	Modifier   int
	Difficulty int
}

// CheckResult - итог проверки навыка
type CheckResult struct {
	Roll    int
	Total   int
	Success bool
}

// Check бросает d20. Натуральная 20 - всегда успех, натуральная 1 - всегда провал.
func (r *Roller) Check(c SkillCheck) CheckResult {
	roll := r.rng.Intn(20) + 1
	total := roll + c.Modifier
	success := total >= c.Difficulty
	switch roll {
	case 20:
		success = true
	case 1:
		success = false
	}
	return CheckResult{Roll: roll, Total: total, Success: success}
}

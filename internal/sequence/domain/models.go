package domain

const (
	MinValue = 1
	MaxValue = 999
)

// Counter is the single persisted row backing sequence allocation.
type Counter struct {
	Num int `gorm:"column:num;not null"`
}

func (Counter) TableName() string {
	return "tt_inspection_counter"
}

// Next returns the value stored after handing out prev.
func Next(prev int) int {
	next := prev + 1
	if next > MaxValue {
		return MinValue
	}
	return next
}

// InRange reports whether v is a valid stored counter value.
func InRange(v int) bool {
	return v >= MinValue && v <= MaxValue
}

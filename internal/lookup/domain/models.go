package domain

type User struct {
	ID   int32  `json:"id" gorm:"column:id;primaryKey"`
	Name string `json:"name" gorm:"column:name;not null"`
}

func (User) TableName() string { return "tt_user" }

type BreakCause struct {
	ID   int32  `json:"id" gorm:"column:id;primaryKey"`
	Type string `json:"type" gorm:"column:type;not null"`
	Name string `json:"cause" gorm:"column:cause;not null"`
}

func (BreakCause) TableName() string { return "tt_break_cause" }

type Breakpoint struct {
	ID   int32  `json:"id" gorm:"column:id;primaryKey"`
	Name string `json:"name" gorm:"column:name;not null"`
}

func (Breakpoint) TableName() string { return "tt_breakpoint" }

type Machine struct {
	MachineNo int32 `json:"machine_no" gorm:"column:machine_no;primaryKey"`
	Stage     int32 `json:"stage" gorm:"column:stage;not null"`
}

func (Machine) TableName() string { return "tt_machine" }

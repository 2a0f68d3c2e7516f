package model

// Blocker assigns every subject a block-set and every student a class of each chosen subject
type Blocker interface {
	Build(
		modelInput ModelInput,
	) (timetable Timetable, err error)

	Verify(
		timetable Timetable,
		modelInput ModelInput,
	) bool
}

// Package conversation holds the per-sender state of multi-step chat flows.
//
// Every flow is its own variant of the sealed State interface. A variant
// carries the step it is waiting on and whatever the sender has entered so
// far; nothing else can be stored for a sender, and a sender has at most one
// State at a time.
package conversation

// Flow names a multi-step conversation.
type Flow string

const (
	FlowRegistering  Flow = "registering"
	FlowAddingTask   Flow = "adding_task"
	FlowEditingTask  Flow = "editing_task"
	FlowAddingUser   Flow = "adding_user"
	FlowChangingRole Flow = "changing_role"
	FlowDeletingUser Flow = "deleting_user"
	FlowUserMenu     Flow = "user_menu"
)

// Step is the prompt a flow is currently waiting on.
type Step string

const (
	StepWaitingForName          Step = "waiting_for_name"
	StepWaitingForTitle         Step = "waiting_for_title"
	StepWaitingForDeadline      Step = "waiting_for_deadline"
	StepWaitingForImage         Step = "waiting_for_image"
	StepWaitingForImageDecision Step = "waiting_for_image_decision"
	StepWaitingForNumber        Step = "waiting_for_number"
	StepWaitingForRole          Step = "waiting_for_role"
	StepConfirmDelete           Step = "confirm_delete"
	StepWaitingForSelection     Step = "waiting_for_selection"
)

// State is one open conversation. The set of implementations is closed.
type State interface {
	Flow() Flow
	CurrentStep() Step
	isState()
}

// Registering collects the display name of an unknown sender.
type Registering struct {
	Step Step `json:"step"`
}

// AddingTask collects a new task. Deadline is stored as YYYY-MM-DD and
// Photos holds media store paths in upload order.
type AddingTask struct {
	Step     Step     `json:"step"`
	Title    string   `json:"title,omitempty"`
	Deadline string   `json:"deadline,omitempty"`
	Photos   []string `json:"photos,omitempty"`
}

// EditingTask collects replacement values for an existing task.
type EditingTask struct {
	Step        Step   `json:"step"`
	TaskID      uint   `json:"task_id"`
	TaskTitle   string `json:"task_title,omitempty"`
	NewTitle    string `json:"new_title,omitempty"`
	NewDeadline string `json:"new_deadline,omitempty"`
}

// AddingUser collects an account created by a superadmin.
type AddingUser struct {
	Step  Step   `json:"step"`
	Phone string `json:"phone,omitempty"`
	Name  string `json:"name,omitempty"`
}

// ChangingRole waits for the new role of TargetPhone.
type ChangingRole struct {
	Step        Step   `json:"step"`
	TargetPhone string `json:"target_phone"`
	TargetName  string `json:"target_name,omitempty"`
}

// DeletingUser waits for the confirmation to delete TargetPhone.
type DeletingUser struct {
	Step        Step   `json:"step"`
	TargetPhone string `json:"target_phone"`
	TargetName  string `json:"target_name,omitempty"`
}

// UserMenu is the superadmin user-management sub-menu.
type UserMenu struct {
	Step Step `json:"step"`
}

func (Registering) Flow() Flow  { return FlowRegistering }
func (AddingTask) Flow() Flow   { return FlowAddingTask }
func (EditingTask) Flow() Flow  { return FlowEditingTask }
func (AddingUser) Flow() Flow   { return FlowAddingUser }
func (ChangingRole) Flow() Flow { return FlowChangingRole }
func (DeletingUser) Flow() Flow { return FlowDeletingUser }
func (UserMenu) Flow() Flow     { return FlowUserMenu }

func (s Registering) CurrentStep() Step  { return s.Step }
func (s AddingTask) CurrentStep() Step   { return s.Step }
func (s EditingTask) CurrentStep() Step  { return s.Step }
func (s AddingUser) CurrentStep() Step   { return s.Step }
func (s ChangingRole) CurrentStep() Step { return s.Step }
func (s DeletingUser) CurrentStep() Step { return s.Step }
func (s UserMenu) CurrentStep() Step     { return s.Step }

func (Registering) isState()  {}
func (AddingTask) isState()   {}
func (EditingTask) isState()  {}
func (AddingUser) isState()   {}
func (ChangingRole) isState() {}
func (DeletingUser) isState() {}
func (UserMenu) isState()     {}

// NewRegistering starts the registration flow.
func NewRegistering() Registering {
	return Registering{Step: StepWaitingForName}
}

// NewAddingTask starts the task creation flow.
func NewAddingTask() AddingTask {
	return AddingTask{Step: StepWaitingForTitle}
}

// NewEditingTask starts editing the task with the given id.
func NewEditingTask(taskID uint, currentTitle string) EditingTask {
	return EditingTask{Step: StepWaitingForTitle, TaskID: taskID, TaskTitle: currentTitle}
}

// NewAddingUser starts the add-user flow.
func NewAddingUser() AddingUser {
	return AddingUser{Step: StepWaitingForNumber}
}

// NewChangingRole waits for the new role of an existing user.
func NewChangingRole(phone, name string) ChangingRole {
	return ChangingRole{Step: StepWaitingForRole, TargetPhone: phone, TargetName: name}
}

// NewDeletingUser waits for the confirmation to delete a user.
func NewDeletingUser(phone, name string) DeletingUser {
	return DeletingUser{Step: StepConfirmDelete, TargetPhone: phone, TargetName: name}
}

// NewUserMenu opens the user-management sub-menu.
func NewUserMenu() UserMenu {
	return UserMenu{Step: StepWaitingForSelection}
}

// WithPhoto returns a copy of s with path appended to its photos. The
// receiver's slice is never shared with the result.
func (s AddingTask) WithPhoto(path string) AddingTask {
	photos := make([]string, len(s.Photos), len(s.Photos)+1)
	copy(photos, s.Photos)
	s.Photos = append(photos, path)
	return s
}

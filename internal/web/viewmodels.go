package web

import "rpgme/internal/character"

// ViewModel contains data for rendering the customizer page and fragments.
type ViewModel struct {
	Title     string
	SessionID string // posted back by every control so updates hit this page's state
	Settings  character.Settings
	Controls  []ControlView
	Linked    []ControlView // controls re-rendered out of band after an update
}

// ControlView is one control bound to the current settings.
type ControlView struct {
	Control   character.Control
	SessionID string
	Value     string
	Checked   bool
	OOB       bool
}

// ShareView is the payload of the share event shown as a notification.
type ShareView struct {
	Link      string `json:"link"`
	Message   string `json:"message"`
	Failed    bool   `json:"failed"`
	TimeoutMS int64  `json:"timeout"`
}

func (s *Server) makeViewModel(sid string, st character.Settings) ViewModel {
	vm := ViewModel{
		Title:     pageTitle,
		SessionID: sid,
		Settings:  st,
	}
	for _, ctl := range s.Controls.Controls {
		vm.Controls = append(vm.Controls, bindControl(ctl, sid, st))
	}
	return vm
}

func bindControl(ctl character.Control, sid string, st character.Settings) ControlView {
	return ControlView{
		Control:   ctl,
		SessionID: sid,
		Value:     ctl.Current(st),
		Checked:   ctl.IsChecked(st),
	}
}

// linkedControls returns the other controls editing the same field as
// edited, marked for out-of-band swap so they reflect the new value.
func (s *Server) linkedControls(vm ViewModel, edited character.Control) []ControlView {
	var out []ControlView
	for _, cv := range vm.Controls {
		if cv.Control.ID == edited.ID || cv.Control.Field != edited.Field {
			continue
		}
		cv.OOB = true
		out = append(out, cv)
	}
	return out
}

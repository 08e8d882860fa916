package session

import "github.com/estatery/realty-client/internal/models"

// State — снимок состояния сессии. Поле IsAuthenticated не хранится,
// а выводится: инвариант "аутентифицирован ⇔ есть и пользователь, и токен"
// выполняется по построению.
type State struct {
	User      *models.User
	Token     string
	IsLoading bool
	Error     string
}

// IsAuthenticated сообщает, установлена ли сессия.
func (s State) IsAuthenticated() bool {
	return s.User != nil && s.Token != ""
}

// initialState — состояние на старте процесса: идёт восстановление сессии.
func initialState() State {
	return State{IsLoading: true}
}

// action — размеченное объединение переходов состояния.
// Каждый вариант соответствует ровно одной операции хранилища.
type action interface {
	isAction()
}

type actionSetLoading struct {
	loading bool
}

type actionSetSession struct {
	user  *models.User
	token string
}

type actionSetError struct {
	message string
}

type actionLogout struct{}

type actionClearError struct{}

func (actionSetLoading) isAction() {}
func (actionSetSession) isAction() {}
func (actionSetError) isAction()   {}
func (actionLogout) isAction()     {}
func (actionClearError) isAction() {}

// reduce — чистая функция перехода. Неизвестный вариант оставляет
// состояние без изменений.
func reduce(st State, a action) State {
	switch a := a.(type) {
	case actionSetLoading:
		st.IsLoading = a.loading
		return st
	case actionSetSession:
		return State{
			User:  a.user,
			Token: a.token,
		}
	case actionSetError:
		st.Error = a.message
		st.IsLoading = false
		return st
	case actionLogout:
		st = initialState()
		st.IsLoading = false
		return st
	case actionClearError:
		st.Error = ""
		return st
	default:
		return st
	}
}

// Package session реализует хранилище состояния аутентификации —
// единственный источник истины о том, вошёл ли пользователь.
//
// Жизненный цикл: Restoring → {Authenticated, Unauthenticated}; из любого
// установившегося состояния операции login/register/update проходят через
// переходное Pending. Параллельные операции не сериализуются: каждая
// запись состояния атомарна, но при гонке побеждает завершившаяся последней.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/estatery/realty-client/internal/api"
	"github.com/estatery/realty-client/internal/lib/sl"
	"github.com/estatery/realty-client/internal/models"
	"github.com/estatery/realty-client/internal/tokenstore"
)

// Логические эндпоинты аутентификации. Экраны ходят на них только
// через это хранилище, напрямую клиентом не пользуются.
const (
	pathLogin    = "/auth/login"
	pathRegister = "/auth/register"
	pathMe       = "/auth/me"
	pathProfile  = "/user/profile"
)

// ErrNotAuthenticated возвращается операциями, требующими установленной сессии.
var ErrNotAuthenticated = errors.New("not authenticated")

// Store владеет состоянием сессии и выполняет операции аутентификации.
// Все мутации состояния проходят через dispatch + reduce.
type Store struct {
	log    *slog.Logger
	client *api.Client
	tokens tokenstore.Store

	mu    sync.RWMutex
	state State
}

// authResponse — ответ бэкенда на login/register.
type authResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// userResponse — ответ бэкенда с профилем пользователя.
type userResponse struct {
	User *models.User `json:"user"`
}

// NewStore создаёт хранилище в состоянии Restoring (IsLoading=true):
// до вызова Restore статус сессии неизвестен.
func NewStore(log *slog.Logger, client *api.Client, tokens tokenstore.Store) *Store {
	return &Store{
		log:    log,
		client: client,
		tokens: tokens,
		state:  initialState(),
	}
}

// State возвращает снимок текущего состояния.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Store) dispatch(a action) {
	s.mu.Lock()
	s.state = reduce(s.state, a)
	s.mu.Unlock()
}

// Restore пытается восстановить сессию из долговременного хранилища.
// Вызывается один раз на старте. Любая неудача — тихая: токен удаляется,
// состояние становится неаутентифицированным, ошибка пользователю не
// показывается.
func (s *Store) Restore(ctx context.Context) {
	const op = "session.Store.Restore"

	token, err := s.tokens.Get(ctx)
	if err != nil {
		if !errors.Is(err, tokenstore.ErrNotFound) {
			s.log.Warn("failed to read stored token", slog.String("op", op), sl.Err(err))
		}
		s.dispatch(actionSetLoading{loading: false})
		return
	}

	// Токен найден: подтверждаем его круговым запросом профиля.
	s.client.SetToken(token)
	var resp userResponse
	if err := s.client.Get(ctx, pathMe, &resp); err != nil || resp.User == nil {
		s.log.Warn("failed to restore session", slog.String("op", op))
		if delErr := s.tokens.Delete(ctx); delErr != nil {
			s.log.Warn("failed to remove stale token", slog.String("op", op), sl.Err(delErr))
		}
		s.client.Logout()
		s.dispatch(actionSetLoading{loading: false})
		return
	}

	s.dispatch(actionSetSession{user: resp.User, token: token})
	s.log.Info("session restored", slog.String("user_id", resp.User.ID))
}

// Login аутентифицирует пользователя. При успехе токен сначала попадает
// в долговременное хранилище и только затем состояние становится
// аутентифицированным. При неудаче ошибка записывается в состояние и
// возвращается вызывающему; пользователь и токен не меняются.
func (s *Store) Login(ctx context.Context, email, password string) error {
	const op = "session.Store.Login"

	s.dispatch(actionClearError{})
	s.dispatch(actionSetLoading{loading: true})

	var resp authResponse
	err := s.client.Post(ctx, pathLogin, map[string]string{
		"email":    email,
		"password": password,
	}, &resp)
	if err != nil {
		s.dispatch(actionSetError{message: api.Message(err)})
		s.log.Error("login failed", slog.String("op", op), sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.establish(ctx, op, resp); err != nil {
		return err
	}
	s.log.Info("user logged in", slog.String("user_id", resp.User.ID))
	return nil
}

// Register создаёт учётную запись. Контракт тот же, что у Login.
func (s *Store) Register(ctx context.Context, req models.RegisterRequest) error {
	const op = "session.Store.Register"

	s.dispatch(actionClearError{})
	s.dispatch(actionSetLoading{loading: true})

	var resp authResponse
	if err := s.client.Post(ctx, pathRegister, req, &resp); err != nil {
		s.dispatch(actionSetError{message: api.Message(err)})
		s.log.Error("registration failed", slog.String("op", op), sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.establish(ctx, op, resp); err != nil {
		return err
	}
	s.log.Info("user registered", slog.String("user_id", resp.User.ID))
	return nil
}

// establish завершает успешный login/register: зеркалирует токен в
// долговременное хранилище, прикрепляет его к клиенту и переводит
// состояние в аутентифицированное.
func (s *Store) establish(ctx context.Context, op string, resp authResponse) error {
	if resp.User == nil || resp.Token == "" {
		err := fmt.Errorf("%s: malformed auth response", op)
		s.dispatch(actionSetError{message: "malformed server response"})
		return err
	}
	if err := s.tokens.Set(ctx, resp.Token); err != nil {
		s.dispatch(actionSetError{message: "failed to persist session"})
		s.log.Error("failed to persist token", slog.String("op", op), sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	s.client.SetToken(resp.Token)
	s.dispatch(actionSetSession{user: resp.User, token: resp.Token})
	return nil
}

// Logout сбрасывает сессию безусловно и никогда не завершается ошибкой:
// токен снимается с клиента, удаляется из хранилища, состояние
// возвращается к начальному неаутентифицированному виду.
func (s *Store) Logout(ctx context.Context) {
	const op = "session.Store.Logout"

	s.client.Logout()
	if err := s.tokens.Delete(ctx); err != nil {
		s.log.Warn("failed to remove stored token", slog.String("op", op), sl.Err(err))
	}
	s.dispatch(actionLogout{})
	s.log.Info("user logged out")
}

// UpdateProfile частично обновляет профиль. Требует установленной сессии.
// При успехе обновлённый пользователь попадает в состояние, токен
// сохраняется прежним. При неудаче ошибка записывается и возвращается,
// пользователь не меняется.
func (s *Store) UpdateProfile(ctx context.Context, patch models.UserPatch) error {
	const op = "session.Store.UpdateProfile"

	st := s.State()
	if !st.IsAuthenticated() {
		return fmt.Errorf("%s: %w", op, ErrNotAuthenticated)
	}

	s.dispatch(actionClearError{})
	s.dispatch(actionSetLoading{loading: true})

	var resp userResponse
	if err := s.client.Put(ctx, pathProfile, patch, &resp); err != nil {
		s.dispatch(actionSetError{message: api.Message(err)})
		s.log.Error("profile update failed", slog.String("op", op), sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	if resp.User == nil {
		s.dispatch(actionSetError{message: "malformed server response"})
		return fmt.Errorf("%s: malformed profile response", op)
	}

	s.dispatch(actionSetSession{user: resp.User, token: st.Token})
	s.log.Info("profile updated", slog.String("user_id", resp.User.ID))
	return nil
}

// ClearError убирает сообщение об ошибке; больше ничего не меняет.
func (s *Store) ClearError() {
	s.dispatch(actionClearError{})
}

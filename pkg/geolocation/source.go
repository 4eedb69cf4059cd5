package geolocation

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Source адаптирует push-поток драйвера к двум формам использования:
// одиночный запрос текущего местоположения (Current) и отменяемая
// подписка на обновления (Watch). Обе формы используют одну конфигурацию.
type Source struct {
	driver Driver
	opts   Options
	logger *logrus.Logger

	mu      sync.Mutex
	lastFix *Position
}

// Subscription - дескриптор активной подписки на обновления местоположения.
type Subscription struct {
	ID uuid.UUID

	mu        sync.Mutex
	cancelled bool
	stop      func()
}

// NewSource создает Source поверх драйвера с заданной конфигурацией.
func NewSource(driver Driver, opts Options, logger *logrus.Logger) *Source {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultOptions().Timeout
	}
	return &Source{
		driver: driver,
		opts:   opts,
		logger: logger,
	}
}

// Current выполняет одиночный запрос местоположения: возвращает первый
// полученный fix или первую ошибку. Если последний fix не старше
// MaximumCacheAge, он возвращается без обращения к драйверу. По истечении
// Options.Timeout запрос завершается ошибкой с кодом CodeTimeout.
func (s *Source) Current(ctx context.Context) (Position, error) {
	if cached := s.cachedFix(); cached != nil {
		s.logger.WithField("age", time.Since(cached.Timestamp)).Debug("Serving cached position fix")
		return *cached, nil
	}

	fixCh := make(chan Position, 1)
	errCh := make(chan *PositionError, 1)

	stop, perr := s.driver.Watch(s.opts,
		func(p Position) {
			select {
			case fixCh <- p:
			default:
			}
		},
		func(e *PositionError) {
			select {
			case errCh <- e:
			default:
			}
		},
	)
	if perr != nil {
		// Отсутствие источника сообщается сразу, без ожидания таймаута
		return Position{}, perr
	}
	defer stop()

	timer := time.NewTimer(s.opts.Timeout)
	defer timer.Stop()

	select {
	case fix := <-fixCh:
		s.remember(fix)
		return fix, nil
	case e := <-errCh:
		return Position{}, e
	case <-timer.C:
		return Position{}, newError(CodeTimeout, "no position fix within %s", s.opts.Timeout)
	case <-ctx.Done():
		return Position{}, ctx.Err()
	}
}

// Watch запускает непрерывную подписку: onFix вызывается на каждый fix,
// onErr (если задан) - на каждую ошибку, не завершая подписку. Подписка
// живет до явного вызова Cancel.
func (s *Source) Watch(onFix func(Position), onErr func(*PositionError)) (*Subscription, error) {
	sub := &Subscription{ID: uuid.New()}

	stop, perr := s.driver.Watch(s.opts,
		func(p Position) {
			sub.mu.Lock()
			defer sub.mu.Unlock()
			if sub.cancelled {
				return
			}
			s.remember(p)
			onFix(p)
		},
		func(e *PositionError) {
			sub.mu.Lock()
			defer sub.mu.Unlock()
			if sub.cancelled || onErr == nil {
				return
			}
			onErr(e)
		},
	)
	if perr != nil {
		return nil, perr
	}

	sub.stop = stop
	s.logger.WithField("subscription_id", sub.ID).Debug("Position watch started")
	return sub, nil
}

// Cancel останавливает подписку. Идемпотентен: повторная отмена и отмена
// nil-дескриптора - no-op. После возврата из Cancel колбэки подписки
// гарантированно не вызываются: флаг cancelled выставляется под тем же
// мьютексом, которым защищены вызовы колбэков.
func (s *Source) Cancel(sub *Subscription) {
	if sub == nil {
		return
	}

	sub.mu.Lock()
	already := sub.cancelled
	sub.cancelled = true
	sub.mu.Unlock()

	if already || sub.stop == nil {
		return
	}
	sub.stop()
	s.logger.WithField("subscription_id", sub.ID).Debug("Position watch cancelled")
}

// cachedFix возвращает последний fix, если он еще не старше MaximumCacheAge
func (s *Source) cachedFix() *Position {
	if s.opts.MaximumCacheAge <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastFix == nil || time.Since(s.lastFix.Timestamp) > s.opts.MaximumCacheAge {
		return nil
	}
	fix := *s.lastFix
	return &fix
}

func (s *Source) remember(fix Position) {
	s.mu.Lock()
	s.lastFix = &fix
	s.mu.Unlock()
}

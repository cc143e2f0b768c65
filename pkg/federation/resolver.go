package federation

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"staybnb/pkg/apperror"
)

// FetchFunc загружает сущность по ключу из фасада, владеющего типом
type FetchFunc func(ctx context.Context, key string) (any, error)

// Fetcher адаптирует типизированный метод сервиса к FetchFunc.
// Пара (nil, nil) считается отсутствием записи.
func Fetcher[T any](fetch func(ctx context.Context, key string) (*T, error)) FetchFunc {
	return func(ctx context.Context, key string) (any, error) {
		entity, err := fetch(ctx, key)
		if err != nil {
			return nil, err
		}
		if entity == nil {
			return nil, apperror.NotFound("Entity not found")
		}
		return entity, nil
	}
}

// Resolver таблица диспетчеризации typename -> функция загрузки.
// Заполняется при старте сервиса, после этого только читается.
type Resolver struct {
	fetchers map[string]FetchFunc
}

func NewResolver() *Resolver {
	return &Resolver{fetchers: make(map[string]FetchFunc)}
}

// Register регистрирует владельца типа. Повторная регистрация это ошибка сборки сервиса.
func (r *Resolver) Register(typename string, fetch FetchFunc) *Resolver {
	if _, exists := r.fetchers[typename]; exists {
		panic(fmt.Sprintf("federation: typename %q already registered", typename))
	}
	r.fetchers[typename] = fetch
	return r
}

// Typenames возвращает зарегистрированные типы в алфавитном порядке
func (r *Resolver) Typenames() []string {
	names := make([]string, 0, len(r.fetchers))
	for name := range r.fetchers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve гидратирует одну заглушку
func (r *Resolver) Resolve(ctx context.Context, stub EntityStub) (any, error) {
	fetch, ok := r.fetchers[stub.Typename]
	if !ok {
		return nil, apperror.InvalidState(fmt.Sprintf("Unknown typename %q", stub.Typename))
	}
	if stub.ID == "" {
		return nil, apperror.InvalidState("Entity key is required")
	}

	entity, err := fetch(ctx, stub.ID)
	if err != nil {
		return nil, err
	}
	return entity, nil
}

// Resolution результат разрешения одной заглушки
type Resolution struct {
	Stub   EntityStub
	Entity any
	Err    error
}

// ResolveAll разрешает заглушки параллельно. Ошибка одной заглушки
// остается в ее слоте и не прерывает соседние.
func (r *Resolver) ResolveAll(ctx context.Context, stubs []EntityStub) []Resolution {
	results := make([]Resolution, len(stubs))

	var g errgroup.Group
	g.SetLimit(8)
	for i, stub := range stubs {
		g.Go(func() error {
			entity, err := r.Resolve(ctx, stub)
			results[i] = Resolution{Stub: stub, Entity: entity, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

package journiv

import "context"

// MaxPageSize is the largest page the Journiv list endpoints accept.
const MaxPageSize = 100

func clampPageSize(n int) int {
	if n <= 0 || n > MaxPageSize {
		return MaxPageSize
	}
	return n
}

type pageFunc[T any] func(ctx context.Context, limit, offset int) ([]T, error)

// collectPages requests pages until an empty one comes back. Unless
// exhaustive is set, a page shorter than pageSize is also taken as the last
// one; that under-fetches if the server ever returns a short page before
// the end. Any page error discards everything collected so far.
func collectPages[T any](ctx context.Context, pageSize int, exhaustive bool, fetch pageFunc[T]) ([]T, error) {
	limit := clampPageSize(pageSize)
	out := []T{}
	for offset := 0; ; offset += limit {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page, err := fetch(ctx, limit, offset)
		if err != nil {
			return nil, err
		}
		if len(page) == 0 {
			break
		}
		out = append(out, page...)
		if !exhaustive && len(page) < limit {
			break
		}
	}
	return out, nil
}

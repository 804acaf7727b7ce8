package ctx

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type testsuite struct {
	suite.Suite
}

func Test(t *testing.T) {
	suite.Run(t, new(testsuite))
}

func (ts *testsuite) TestWithValue() {
	bg := Background()
	ctx := WithValue(bg, "foo", "bar")
	ts.Equal("bar", ctx.Value("foo"))
	ts.Nil(bg.Value("foo"))
}

func (ts *testsuite) TestWithValues() {
	ctx := WithValues(Background(), map[string]interface{}{
		"foo": "bar",
		"baz": 42,
	})
	ts.Equal("bar", ctx.Value("foo"))
	ts.Equal(42, ctx.Value("baz"))
}

func (ts *testsuite) TestWithCancel() {
	ctx, cancel := WithCancel(Background())
	cancel()
	ts.Equal(context.Canceled, ctx.Err())
}

func (ts *testsuite) TestWithTimeout() {
	ctx, cancel := WithTimeout(Background(), time.Millisecond)
	defer cancel()
	<-ctx.Done()
	ts.Equal(context.DeadlineExceeded, ctx.Err())
}

package resources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/osvaldocariege06/Up-ToDo/internal/auth"
	"github.com/osvaldocariege06/Up-ToDo/internal/model"
	"github.com/osvaldocariege06/Up-ToDo/internal/remote/memory"
	"github.com/osvaldocariege06/Up-ToDo/internal/server"
	"github.com/osvaldocariege06/Up-ToDo/internal/store"
)

const owner = "ana@example.com"

func newServerContext(t *testing.T, owner string) (*server.ServerContext, *memory.Service) {
	t.Helper()
	svc := memory.New(memory.WithIDGenerator(memory.SequentialIDs("c")))
	sc, err := server.NewServerContext(context.Background(), server.Options{Service: svc, Owner: auth.Static(owner)})
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc, svc
}

func read(t *testing.T, handler ResourceHandler, uri string) (string, error) {
	t.Helper()
	req := mcp.ReadResourceRequest{}
	req.Params.URI = uri
	contents, err := handler(context.Background(), req)
	if err != nil {
		return "", err
	}
	require.Len(t, contents, 1)
	text, ok := contents[0].(*mcp.TextResourceContents)
	require.True(t, ok)
	assert.Equal(t, uri, text.URI)
	assert.Equal(t, "application/json", text.MIMEType)
	return text.Text, nil
}

func TestRegisterResources(t *testing.T) {
	sc, _ := newServerContext(t, owner)
	s := mcpserver.NewMCPServer("test", "1.0.0", mcpserver.WithResourceCapabilities(false, false))
	assert.NoError(t, RegisterResources(s, sc))
}

func TestTasksResource(t *testing.T) {
	sc, svc := newServerContext(t, owner)
	svc.Seed(
		model.Task{ID: "t1", Title: "Buy milk", UserEmail: owner},
		model.Task{ID: "t2", Title: "Not mine", UserEmail: "bo@example.com"},
	)

	text, err := read(t, handleTasks(sc), URITasks)
	require.NoError(t, err)

	var got struct {
		Owner string       `json:"owner"`
		Tasks []model.Task `json:"tasks"`
	}
	require.NoError(t, json.Unmarshal([]byte(text), &got))
	assert.Equal(t, owner, got.Owner)
	require.Len(t, got.Tasks, 1)
	assert.Equal(t, "t1", got.Tasks[0].ID)
}

func TestTasksResource_ConcurrentLoads(t *testing.T) {
	sc, svc := newServerContext(t, owner)
	svc.Seed(
		model.Task{ID: "t1", Title: "Buy milk", UserEmail: owner},
		model.Task{ID: "t2", Title: "Not mine", UserEmail: "bo@example.com"},
	)

	var g errgroup.Group
	g.Go(func() error {
		for i := 0; i < 200; i++ {
			err := sc.WithTasks(func(ts *store.TaskStore) error {
				return ts.LoadByOwner(context.Background(), "bo@example.com")
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	g.Go(func() error {
		req := mcp.ReadResourceRequest{}
		req.Params.URI = URITasks
		for i := 0; i < 200; i++ {
			contents, err := handleTasks(sc)(context.Background(), req)
			if err != nil {
				return err
			}
			var got struct {
				Tasks []model.Task `json:"tasks"`
			}
			if err := json.Unmarshal([]byte(contents[0].(*mcp.TextResourceContents).Text), &got); err != nil {
				return err
			}
			if len(got.Tasks) != 1 {
				return fmt.Errorf("read %d tasks, want 1", len(got.Tasks))
			}
		}
		return nil
	})
	assert.NoError(t, g.Wait())
}

func TestTasksResource_Errors(t *testing.T) {
	t.Run("no owner", func(t *testing.T) {
		sc, _ := newServerContext(t, "")
		_, err := read(t, handleTasks(sc), URITasks)
		assert.ErrorIs(t, err, auth.ErrNoSession)
	})

	t.Run("backend failure", func(t *testing.T) {
		sc, svc := newServerContext(t, owner)
		svc.FailNext("ListTasksByOwner", errors.New("unavailable"))
		_, err := read(t, handleTasks(sc), URITasks)
		assert.True(t, model.IsTransport(err))
	})
}

func TestCategoriesResource(t *testing.T) {
	sc, _ := newServerContext(t, owner)
	_, err := sc.Categories().Create(context.Background(), model.Category{Title: "Work", Color: "#FF9680"})
	require.NoError(t, err)

	text, err := read(t, handleCategories(sc), URICategories)
	require.NoError(t, err)

	var got []model.Category
	require.NoError(t, json.Unmarshal([]byte(text), &got))
	assert.Equal(t, []model.Category{{ID: "c1", Title: "Work", Color: "#FF9680"}}, got)
}

func TestFocusResource(t *testing.T) {
	sc, _ := newServerContext(t, owner)

	text, err := read(t, handleFocus(sc), URIFocus)
	require.NoError(t, err)
	assert.JSONEq(t, `{"active":false,"remainingSeconds":0}`, text)
}

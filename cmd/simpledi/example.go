package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/km-arc/simpledi/framework/container"
)

type EngineConfig struct {
	HP       int
	MaxSpeed int
}

type Engine struct {
	Config EngineConfig
}

type Car struct {
	Engine *Engine
}

func (c *Car) Text() string {
	return fmt.Sprintf("This car has %dhp!", c.Engine.Config.HP)
}

type HelloService struct {
	greeted int
}

func (h *HelloService) SayHello() string {
	h.greeted++
	return "hello"
}

type FooService struct {
	Hello *HelloService
}

type BarService struct {
	Hello *HelloService
}

func newExampleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "example",
		Short: "Run the container examples",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExample(cmd.OutOrStdout(), container.New())
		},
	}
}

// runExample wires the demo graph into c and prints what it resolves to.
func runExample(w io.Writer, c *container.Container) error {
	title := color.New(color.FgCyan, color.Bold)

	err := c.RegisterBulk([]container.Definition{
		{Name: "Engine", Kind: container.Constructor, Producer: Engine{}, Dependencies: []string{"engineConfig"}},
		{Name: "engineConfig", Kind: container.Constant, Producer: EngineConfig{HP: 120, MaxSpeed: 200}},
		{Name: "Car", Kind: container.Constructor, Producer: Car{}, Dependencies: []string{"Engine"}, Once: true},
		{Name: "foo", Kind: container.Factory, Producer: func(args ...any) []any { return args }, Dependencies: []string{"BAR"}},
		{Name: "BAR", Kind: container.Constant, Producer: 111},
		{Name: "fooService", Kind: container.Constructor, Producer: FooService{}, Dependencies: []string{"helloService"}, Once: true},
		{Name: "barService", Kind: container.Constructor, Producer: BarService{}, Dependencies: []string{"helloService"}, Once: true},
		{Name: "helloService", Kind: container.Constructor, Producer: HelloService{}, Once: true},
	})
	if err != nil {
		return err
	}

	title.Fprintln(w, "# constructor")
	car, err := container.Resolve[*Car](c, "Car")
	if err != nil {
		return err
	}
	fmt.Fprintln(w, car.Text())

	title.Fprintln(w, "# factory with arguments")
	list, err := c.Get("foo", 444, 555)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, list)

	title.Fprintln(w, "# shared once-services")
	foo, err := container.Resolve[*FooService](c, "fooService")
	if err != nil {
		return err
	}
	foo2, err := container.Resolve[*FooService](c, "fooService")
	if err != nil {
		return err
	}
	bar, err := container.Resolve[*BarService](c, "barService")
	if err != nil {
		return err
	}
	fmt.Fprintln(w, foo.Hello.SayHello())
	fmt.Fprintln(w, "same fooService:", foo == foo2)
	fmt.Fprintln(w, "shared helloService:", foo.Hello == bar.Hello)
	return nil
}

package tiermap_test

import (
	"fmt"

	tiermap "github.com/goliatone/go-tiermap"
)

func Example() {
	server := tiermap.NewFrom(map[string]string{"motd": "welcome"})
	channel := server.Child()
	session := channel.Child()

	// writes cascade toward the root
	session.Put("nick", "alice")
	fmt.Println(server.ContainsKey("nick"))

	// ancestor values reach descendants on demand
	value, _ := session.Inherit("motd")
	fmt.Println(value)

	// Output:
	// true
	// welcome
}

func ExampleGraph() {
	root := tiermap.NewFrom(map[string]int{"a": 1})
	child := root.Child()
	child.Put("b", 2)

	fmt.Println(tiermap.Graph(root))
	// Output:
	// map[a:1 b:2]
	//  map[b:2]
}

func ExampleMap_Evaluate() {
	root := tiermap.New[string, any]()
	root.Put("quota", 10)
	child := root.Child()
	child.Put("quota", 5)

	result, _ := child.Evaluate("quota <= 5")
	fmt.Println(result.Value)
	// Output:
	// true
}

func ExampleMap_TraceKey() {
	root := tiermap.NewFrom(map[string]string{"env": "prod"})
	leaf := root.Child().Child()
	leaf.Inherit("env")

	trace := leaf.TraceKey("env")
	for _, tier := range trace.Tiers {
		fmt.Println(tier.Generation, tier.Found)
	}
	// Output:
	// 2 true
	// 1 true
	// 0 true
}

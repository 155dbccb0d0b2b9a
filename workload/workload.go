// Package workload generates randomized request mixes for benchmarking the
// server over its wire protocol.
package workload

import (
	"math/rand"
	"strconv"
	"time"

	"github.com/acortes/distributed_calculator/operation"
	"github.com/acortes/distributed_calculator/protocol"
)

// InstructionType constants define the types of requests.
const (
	InstructionTypeGet       = "get"
	InstructionTypeOperation = "operation"
)

// Instruction represents a single request in the workload.
type Instruction struct {
	Type    string        // "get" or "operation"
	Op      string        // operator token, only for operation instructions
	Operand uint8         // operand, only for operation instructions
	Delay   time.Duration // optional delay before issuing the instruction
}

// Message renders the instruction as the wire request it stands for.
func (in Instruction) Message() protocol.Message {
	if in.Type == InstructionTypeGet {
		return protocol.Get()
	}
	return protocol.Operation(in.Op + " " + strconv.Itoa(int(in.Operand)))
}

// Generator generates workloads based on specified parameters.
type Generator struct {
	GetPercentage    float64       // Percentage of GET requests (e.g. 0.2 for 20%)
	OperationCount   int           // Total number of instructions to generate
	MaxOperand       uint8         // Maximum operand for arithmetic instructions
	InstructionDelay time.Duration // Optional delay between instructions
	Seed             int64         // RNG seed; 0 seeds from the clock
}

// NewGenerator creates a Generator with default parameters.
func NewGenerator() *Generator {
	return &Generator{
		GetPercentage:  0.2,
		OperationCount: 1000,
		MaxOperand:     255,
	}
}

var operators = []operation.Operator{operation.Add, operation.Sub, operation.Mul, operation.Div}

// Generate creates a workload based on the generator's parameters. Generated
// divisors are never zero, so every instruction is accepted by the server.
func (g *Generator) Generate() []Instruction {
	seed := g.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	maxOperand := g.MaxOperand
	if maxOperand == 0 {
		maxOperand = 255
	}

	instructions := make([]Instruction, 0, g.OperationCount)
	for i := 0; i < g.OperationCount; i++ {
		if rng.Float64() < g.GetPercentage {
			instructions = append(instructions, Instruction{
				Type:  InstructionTypeGet,
				Delay: g.InstructionDelay,
			})
			continue
		}

		op := operators[rng.Intn(len(operators))]
		// 1..=maxOperand keeps division well-formed.
		operand := uint8(rng.Intn(int(maxOperand))) + 1

		instructions = append(instructions, Instruction{
			Type:    InstructionTypeOperation,
			Op:      op.String(),
			Operand: operand,
			Delay:   g.InstructionDelay,
		})
	}

	return instructions
}

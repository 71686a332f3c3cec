// SPDX-License-Identifier: MPL-2.0

package emit

import "github.com/regista/regista/internal/registry"

const (
	// StrategyStatic pre-creates members as package-level values; lookup
	// tables are built once at package init.
	StrategyStatic Strategy = "static"
	// StrategySingleton shares one lazily built registry instance; members
	// stay package-level but are accessed through the instance.
	StrategySingleton Strategy = "singleton"
	// StrategyFactoryPerCall constructs fresh member instances on every
	// accessor call.
	StrategyFactoryPerCall Strategy = "factory"
	// StrategyService defers construction to a container: an exported
	// constructor, no package-level state.
	StrategyService Strategy = "service"
)

// Strategy is the generation strategy for one registry.
type Strategy string

// SelectStrategy picks the generation strategy for a definition. First
// match wins: explicit always-static, then singleton instances, then factory
// methods without singleton, then an explicit service strategy name. A
// definition that picks nothing falls back to the configured default;
// an empty or unknown fallback means static.
func SelectStrategy(def *registry.Definition, fallback Strategy) Strategy {
	switch {
	case def.AlwaysStatic:
		return StrategyStatic
	case def.UseSingletonInstances:
		return StrategySingleton
	case def.GenerateFactoryMethods:
		return StrategyFactoryPerCall
	case def.StrategyName == "Service" || def.StrategyName == "DependencyInjection":
		return StrategyService
	}

	switch fallback {
	case StrategySingleton, StrategyFactoryPerCall, StrategyService:
		return fallback
	default:
		return StrategyStatic
	}
}

/*
Package domain contains the core domain models of the tinytop launcher.

It defines the values exchanged between the game-hosting core and its
collaborators: normalized input events, game descriptors, the session mode
and the error taxonomy. This package is kept pure and free of I/O, following
Hexagonal Architecture principles.

# Key Entities

  - InputEvent: a normalized key, quit or async notification event.
  - GameDescriptor: the registry's immutable record of a discovered game.
  - Mode: which component owns the display (menu or a running game).
  - LifecycleHooks: observability callbacks fired by the session controller.
*/
package domain

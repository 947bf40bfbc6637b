/*
Package ports defines the interfaces between the tinytop game-hosting core and
its collaborators.

These interfaces decouple the session controller from concrete displays,
games, voice backends and caches, so each can be swapped or faked in tests.

# Key Interfaces

  - Game: the lifecycle contract every game module satisfies.
  - Surface: the fixed-size drawing target shared by the menu and games.
  - Presenter: pushes a finished frame to a real output (terminal, nothing).
  - EventSource: the normalized input queue.
  - Voice: asynchronous text-to-speech.
  - AudioCache: storage for synthesized audio.
  - Sounder: fire-and-forget sound playback.
*/
package ports
